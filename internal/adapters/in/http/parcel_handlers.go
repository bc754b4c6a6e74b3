package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
)

// CreateParcel handles POST /api/v1/parcels.
func (s *Server) CreateParcel(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req createParcelRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	recipient := commands.RecipientInput{
		Name:    req.Recipient.Name,
		Email:   req.Recipient.Email,
		Phone:   req.Recipient.Phone,
		Address: req.Recipient.Address,
	}
	if req.Recipient.UserID != nil {
		id, err := kernel.UUIDFromGoogle(*req.Recipient.UserID)
		if err != nil {
			return err
		}
		recipient.UserID = &id
	}

	cmd, err := commands.NewCreateParcelCommand(actor, recipient, req.Weight, req.PickupAddress, req.Notes)
	if err != nil {
		return err
	}
	if _, err := s.h.CreateParcel.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondWithParcel(c, http.StatusCreated, "Parcel created successfully", cmd.ParcelID())
}

// ListOwnParcels handles GET /api/v1/parcels/me.
func (s *Server) ListOwnParcels(c echo.Context) error {
	return s.listParcels(c, queries.ScopeSent, "Parcels retrieved successfully")
}

// ListIncomingParcels handles GET /api/v1/parcels/incoming.
func (s *Server) ListIncomingParcels(c echo.Context) error {
	return s.listParcels(c, queries.ScopeIncoming, "Incoming parcels retrieved successfully")
}

// ListDeliveries handles GET /api/v1/parcels/my-deliveries.
func (s *Server) ListDeliveries(c echo.Context) error {
	return s.listParcels(c, queries.ScopeDeliveries, "Assigned deliveries retrieved successfully")
}

// ListAllParcels handles GET /api/v1/parcels/all.
func (s *Server) ListAllParcels(c echo.Context) error {
	return s.listParcels(c, queries.ScopeAll, "All parcels retrieved successfully")
}

func (s *Server) listParcels(c echo.Context, scope queries.ParcelScope, message string) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	status, err := bindStatusFilter(c)
	if err != nil {
		return err
	}
	query, err := queries.NewListParcelsQuery(actor, scope, page, status)
	if err != nil {
		return err
	}
	result, err := s.h.ListParcels.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respondPage(c, message, result.Items, result.Meta)
}

// GetParcelStats handles GET /api/v1/parcels/stats.
func (s *Server) GetParcelStats(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetParcelStatsQuery(actor)
	if err != nil {
		return err
	}
	stats, err := s.h.ParcelStats.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Parcel statistics retrieved successfully", stats)
}

// TrackParcel handles the public GET /api/v1/parcels/track/{trackingNumber}.
func (s *Server) TrackParcel(c echo.Context) error {
	query, err := queries.NewTrackParcelQuery(c.Param("trackingNumber"))
	if err != nil {
		return err
	}
	view, err := s.h.TrackParcel.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Parcel retrieved successfully", view)
}

// GetParcel handles GET /api/v1/parcels/{id}.
func (s *Server) GetParcel(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	query, err := queries.NewGetParcelQuery(actor, id)
	if err != nil {
		return err
	}
	view, err := s.h.GetParcel.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Parcel retrieved successfully", view)
}

// CancelParcel handles PATCH /api/v1/parcels/{id}/cancel.
func (s *Server) CancelParcel(c echo.Context) error {
	return s.noteCommand(c, "Parcel cancelled successfully", func(actor kernel.Actor, id kernel.UUID, note string) error {
		cmd, err := commands.NewCancelParcelCommand(actor, id, note)
		if err != nil {
			return err
		}
		return s.h.CancelParcel.Handle(c.Request().Context(), cmd)
	})
}

// ConfirmDelivery handles PATCH /api/v1/parcels/{id}/confirm-delivery.
func (s *Server) ConfirmDelivery(c echo.Context) error {
	return s.noteCommand(c, "Delivery confirmed successfully", func(actor kernel.Actor, id kernel.UUID, note string) error {
		cmd, err := commands.NewConfirmDeliveryCommand(actor, id, note)
		if err != nil {
			return err
		}
		return s.h.ConfirmDelivery.Handle(c.Request().Context(), cmd)
	})
}

// BlockParcel handles PATCH /api/v1/parcels/{id}/block.
func (s *Server) BlockParcel(c echo.Context) error {
	return s.noteCommand(c, "Parcel blocked successfully", func(actor kernel.Actor, id kernel.UUID, note string) error {
		cmd, err := commands.NewBlockParcelCommand(actor, id, note)
		if err != nil {
			return err
		}
		return s.h.BlockParcel.Handle(c.Request().Context(), cmd)
	})
}

// UnblockParcel handles PATCH /api/v1/parcels/{id}/unblock.
func (s *Server) UnblockParcel(c echo.Context) error {
	return s.noteCommand(c, "Parcel unblocked successfully", func(actor kernel.Actor, id kernel.UUID, note string) error {
		cmd, err := commands.NewUnblockParcelCommand(actor, id, note)
		if err != nil {
			return err
		}
		return s.h.UnblockParcel.Handle(c.Request().Context(), cmd)
	})
}

// UpdateDeliveryStatus handles PATCH /api/v1/parcels/{id}/update-delivery-status.
func (s *Server) UpdateDeliveryStatus(c echo.Context) error {
	return s.statusCommand(c, "Delivery status updated successfully", func(actor kernel.Actor, id kernel.UUID, status parcel.Status, note string) error {
		cmd, err := commands.NewUpdateDeliveryStatusCommand(actor, id, status, note)
		if err != nil {
			return err
		}
		return s.h.UpdateDeliveryStatus.Handle(c.Request().Context(), cmd)
	})
}

// OverrideParcelStatus handles PATCH /api/v1/parcels/{id}/admin-update-status.
func (s *Server) OverrideParcelStatus(c echo.Context) error {
	return s.statusCommand(c, "Parcel status updated successfully", func(actor kernel.Actor, id kernel.UUID, status parcel.Status, note string) error {
		cmd, err := commands.NewOverrideParcelStatusCommand(actor, id, status, note)
		if err != nil {
			return err
		}
		return s.h.OverrideStatus.Handle(c.Request().Context(), cmd)
	})
}

// AssignDeliveryMan handles PATCH /api/v1/parcels/{id}/assign.
func (s *Server) AssignDeliveryMan(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	var req assignDeliveryManRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	deliveryManID, err := kernel.UUIDFromGoogle(req.DeliveryManID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignDeliveryManCommand(actor, id, deliveryManID)
	if err != nil {
		return err
	}
	if err := s.h.AssignDeliveryMan.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondWithParcel(c, http.StatusOK, "Delivery agent assigned successfully", id)
}

func (s *Server) noteCommand(c echo.Context, message string, run func(kernel.Actor, kernel.UUID, string) error) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	var req noteRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := run(actor, id, req.Note); err != nil {
		return err
	}
	return s.respondWithParcel(c, http.StatusOK, message, id)
}

func (s *Server) statusCommand(
	c echo.Context, message string, run func(kernel.Actor, kernel.UUID, parcel.Status, string) error,
) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	var req updateStatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	status, err := parcel.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	if err := run(actor, id, status, req.Note); err != nil {
		return err
	}
	return s.respondWithParcel(c, http.StatusOK, message, id)
}

// respondWithParcel reloads the parcel after a committed change. The command
// already authorized the actor, so the read is not re-checked.
func (s *Server) respondWithParcel(c echo.Context, code int, message string, id kernel.UUID) error {
	p, err := s.parcels.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, code, message, queries.NewParcelView(p))
}
