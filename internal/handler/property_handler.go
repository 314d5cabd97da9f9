package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/josiaO/SmartDalaliTZ/internal/middleware"
	"github.com/josiaO/SmartDalaliTZ/internal/model"
	"github.com/josiaO/SmartDalaliTZ/internal/query"
	"github.com/josiaO/SmartDalaliTZ/internal/service"
	"github.com/josiaO/SmartDalaliTZ/internal/utils"
)

// CoordinatesDTO requires both halves of the pair.
type CoordinatesDTO struct {
	Lat *float64 `json:"lat" binding:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" binding:"required,gte=-180,lte=180"`
}

type LocationDTO struct {
	City        string          `json:"city" binding:"required"`
	Address     string          `json:"address" binding:"required"`
	Coordinates *CoordinatesDTO `json:"coordinates"`
}

// PropertyRequestDTO is the body of create and update requests. AgentID is
// honoured only for superusers.
type PropertyRequestDTO struct {
	Title        string      `json:"title" binding:"required"`
	Description  string      `json:"description" binding:"required"`
	PropertyType string      `json:"propertyType" binding:"required"`
	Type         string      `json:"type" binding:"required,oneof=sale rent land"`
	Price        float64     `json:"price" binding:"gte=0"`
	Location     LocationDTO `json:"location"`
	Images       []string    `json:"images" binding:"required,min=1,dive,required"`
	Bedrooms     *int        `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms    *int        `json:"bathrooms" binding:"omitempty,gte=0"`
	Area         float64     `json:"area" binding:"required,gt=0"`
	Featured     bool        `json:"featured"`
	AgentID      string      `json:"agentId"`
}

func (r PropertyRequestDTO) toModel() model.Property {
	p := model.Property{
		Title:        r.Title,
		Description:  r.Description,
		PropertyType: r.PropertyType,
		Type:         model.TransactionType(r.Type),
		Price:        r.Price,
		Location:     model.Location{City: r.Location.City, Address: r.Location.Address},
		Images:       r.Images,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		Area:         r.Area,
		Featured:     r.Featured,
	}
	if c := r.Location.Coordinates; c != nil {
		p.Location.Coordinates = &model.Coordinates{Lat: *c.Lat, Lng: *c.Lng}
	}
	return p
}

// PropertyResponseDTO adds display fields to a property.
type PropertyResponseDTO struct {
	model.Property
	PriceDisplay string `json:"priceDisplay"`
}

func toResponse(p model.Property) PropertyResponseDTO {
	return PropertyResponseDTO{Property: p, PriceDisplay: utils.FormatPrice(p.Price, string(p.Type))}
}

func toResponses(list []model.Property) []PropertyResponseDTO {
	out := make([]PropertyResponseDTO, 0, len(list))
	for _, p := range list {
		out = append(out, toResponse(p))
	}
	return out
}

// MarkerDTO is what the map view needs to draw a pin and its popup.
type MarkerDTO struct {
	ID           int64                 `json:"id"`
	Title        string                `json:"title"`
	Type         model.TransactionType `json:"type"`
	PriceDisplay string                `json:"priceDisplay"`
	Address      string                `json:"address"`
	Lat          float64               `json:"lat"`
	Lng          float64               `json:"lng"`
}

type PropertyHandler struct {
	svc       *service.PropertyService
	jwtSecret string
}

func NewPropertyHandler(svc *service.PropertyService, jwtSecret string) *PropertyHandler {
	return &PropertyHandler{svc: svc, jwtSecret: jwtSecret}
}

// RegisterRoutes wires the public catalogue on public and the listing
// management endpoints on agent and admin.
func (h *PropertyHandler) RegisterRoutes(public, agent, admin *gin.RouterGroup) {
	public.GET("/properties", h.Search)
	public.GET("/properties/facets", h.Facets)
	public.GET("/properties/featured", h.Featured)
	public.GET("/properties/map", h.Map)
	public.GET("/properties/:id", middleware.OptionalJWTAuth(h.jwtSecret), h.GetByID)

	agent.GET("/agent/properties", h.AgentListings)
	agent.POST("/properties", h.Create)
	agent.PUT("/properties/:id", h.Update)
	agent.DELETE("/properties/:id", h.Delete)

	admin.GET("/admin/properties/pending", h.Pending)
	admin.PUT("/admin/properties/:id/approve", h.Approve)
	admin.PUT("/admin/properties/:id/reject", h.Reject)
}

func descriptorFrom(c *gin.Context) query.Descriptor {
	return query.ParseDescriptor(
		c.Query("search"),
		c.DefaultQuery("type", query.All),
		c.DefaultQuery("city", query.All),
		c.Query("mappable") == "true",
	)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.RespondErrorWithCode(c, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid property id", nil, err)
		return 0, false
	}
	return id, true
}

// GET /api/v1/properties?search=&type=&city=
func (h *PropertyHandler) Search(c *gin.Context) {
	list, err := h.svc.Search(c.Request.Context(), descriptorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(list))
}

// GET /api/v1/properties/facets
func (h *PropertyHandler) Facets(c *gin.Context) {
	f, err := h.svc.Facets(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// GET /api/v1/properties/featured?limit=
func (h *PropertyHandler) Featured(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultFeaturedLimit)))
	if err != nil {
		utils.RespondErrorWithCode(c, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "limit must be an integer", nil, err)
		return
	}
	list, err := h.svc.Featured(c.Request.Context(), limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(list))
}

// GET /api/v1/properties/map?search=&type=&city=
func (h *PropertyHandler) Map(c *gin.Context) {
	list, err := h.svc.MapMarkers(c.Request.Context(), descriptorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	markers := make([]MarkerDTO, 0, len(list))
	for _, p := range list {
		markers = append(markers, MarkerDTO{
			ID:           p.ID,
			Title:        p.Title,
			Type:         p.Type,
			PriceDisplay: utils.FormatPrice(p.Price, string(p.Type)),
			Address:      p.Location.Address,
			Lat:          p.Location.Coordinates.Lat,
			Lng:          p.Location.Coordinates.Lng,
		})
	}
	c.JSON(http.StatusOK, markers)
}

// GET /api/v1/properties/:id
func (h *PropertyHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(*p))
}

// GET /api/v1/agent/properties
func (h *PropertyHandler) AgentListings(c *gin.Context) {
	list, err := h.svc.AgentListings(c.Request.Context(), middleware.ActorFrom(c).ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(list))
}

// POST /api/v1/properties
func (h *PropertyHandler) Create(c *gin.Context) {
	var req PropertyRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), middleware.ActorFrom(c), req.AgentID, c.GetHeader("Authorization"), req.toModel())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(*p))
}

// PUT /api/v1/properties/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req PropertyRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}
	p, err := h.svc.Update(c.Request.Context(), middleware.ActorFrom(c), id, req.toModel())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(*p))
}

// DELETE /api/v1/properties/:id
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// GET /api/v1/admin/properties/pending
func (h *PropertyHandler) Pending(c *gin.Context) {
	list, err := h.svc.ListPending(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(list))
}

// PUT /api/v1/admin/properties/:id/approve
func (h *PropertyHandler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.svc.Approve(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "approved", "property": toResponse(*p)})
}

// PUT /api/v1/admin/properties/:id/reject
func (h *PropertyHandler) Reject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.svc.Reject(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rejected", "property": toResponse(*p)})
}
