package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/plantops/plantops/pkg/errhttp"
	"github.com/plantops/plantops/pkg/httpx"
	appsvcs "github.com/plantops/plantops/services/transfer/application/services"
	"github.com/plantops/plantops/services/transfer/domain/models"
)

// LinkedMaterialResponse is one department's record inside a group.
type LinkedMaterialResponse struct {
	DepartmentCode string `json:"department_code" example:"10"`
	DepartmentName string `json:"department_name" example:"Stamping"`
	MaterialNumber string `json:"material_number" example:"MAT-10-0042"`
	OnHand         int    `json:"on_hand"         example:"50"`
	UnitCost       string `json:"unit_cost"       example:"12.00"`
	Location       string `json:"location"        example:"A-03-2"`
} // @name LinkedMaterialResponse

// GroupResponse is the wire representation of a shared material group.
type GroupResponse struct {
	ID            uuid.UUID                `json:"id"              example:"550e8400-e29b-41d4-a716-446655440000"`
	Name          string                   `json:"name"            example:"SKF 6205 Bearing"`
	OEMPartNumber string                   `json:"oem_part_number" example:"6205-2RSH"`
	Status        string                   `json:"status"          example:"active"`
	Materials     []LinkedMaterialResponse `json:"materials"`
} // @name GroupResponse

// ListGroupsResponse wraps the group list.
type ListGroupsResponse struct {
	Groups []GroupResponse `json:"groups"`
	Count  int             `json:"count" example:"1"`
} // @name ListGroupsResponse

func toGroupResponse(g *models.SharedMaterialGroup) GroupResponse {
	materials := make([]LinkedMaterialResponse, 0, len(g.LinkedMaterials))
	for _, m := range g.LinkedMaterials {
		materials = append(materials, LinkedMaterialResponse{
			DepartmentCode: m.DepartmentCode,
			DepartmentName: m.DepartmentName,
			MaterialNumber: m.MaterialNumber,
			OnHand:         m.OnHand,
			UnitCost:       m.UnitCost.StringFixed(2),
			Location:       m.Location,
		})
	}
	return GroupResponse{
		ID:            g.ID,
		Name:          g.Name,
		OEMPartNumber: g.OEMPartNumber,
		Status:        string(g.Status),
		Materials:     materials,
	}
}

// GetGroupsHandler handles GET /groups requests.
type GetGroupsHandler struct {
	svc *appsvcs.Services
}

// NewGetGroupsHandler returns a GetGroupsHandler backed by the given services.
func NewGetGroupsHandler(svc *appsvcs.Services) *GetGroupsHandler {
	return &GetGroupsHandler{svc: svc}
}

// Execute lists all shared material groups with live balances.
//
//	@Summary		List groups
//	@Tags			groups
//	@Produce		json
//	@Success		200	{object}	ListGroupsResponse
//	@Failure		401	{object}	ErrorResponse
//	@Router			/groups [get]
func (h *GetGroupsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.Group.List(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	out := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	httpx.JSON(w, http.StatusOK, ListGroupsResponse{Groups: out, Count: len(out)})
}

// GetGroupHandler handles GET /groups/{id} requests.
type GetGroupHandler struct {
	svc *appsvcs.Services
}

// NewGetGroupHandler returns a GetGroupHandler backed by the given services.
func NewGetGroupHandler(svc *appsvcs.Services) *GetGroupHandler {
	return &GetGroupHandler{svc: svc}
}

// Execute returns a single group. Served from the Redis read model when warm;
// balances may lag completed transfers by up to the cache TTL.
//
//	@Summary		Get group
//	@Tags			groups
//	@Produce		json
//	@Param			id	path		string	true	"Group ID"
//	@Success		200	{object}	GroupResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/groups/{id} [get]
func (h *GetGroupHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid group id"})
		return
	}

	group, err := h.svc.Group.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toGroupResponse(group))
}
