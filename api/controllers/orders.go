package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/urbanshop/urbanshop-backend/api/responses"
	"github.com/urbanshop/urbanshop-backend/api/validators"
	"github.com/urbanshop/urbanshop-backend/internal/feed"
	ordersvc "github.com/urbanshop/urbanshop-backend/internal/orders"
	"github.com/urbanshop/urbanshop-backend/pkg/logger"
	"github.com/urbanshop/urbanshop-backend/pkg/pagination"
)

// ListMyOrders pages through the caller's own orders, newest first.
func ListMyOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListMyOrders(r.Context(), ownerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetMyOrder serves one of the caller's orders. Another customer's order id
// answers not found rather than forbidden.
func GetMyOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseURLUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetMyOrder(r.Context(), ownerID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// MyOrdersFeed streams the caller's order list over SSE. Every write to one
// of their orders pushes a fresh first page.
func MyOrdersFeed(hub *feed.Hub, svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		load := myOrdersLoader(svc, ownerID)
		streamFeed(w, r, hub, ordersvc.OwnerOrdersTopic(ownerID), load, logg)
	}
}

func myOrdersLoader(svc ordersvc.Service, ownerID uuid.UUID) feed.Loader {
	return func(ctx context.Context) (any, error) {
		return svc.ListMyOrders(ctx, ownerID, pagination.Params{Limit: pagination.DefaultLimit})
	}
}
