package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/sweetshop-api/internal/api/metrics"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

const defaultPageSize = 100

type SweetHandler struct {
	sweetService ports.SweetService
	metrics      *metrics.Metrics
}

func NewSweetHandler(sweetService ports.SweetService, m *metrics.Metrics) *SweetHandler {
	return &SweetHandler{sweetService: sweetService, metrics: m}
}

// List returns one page of available sweets.
//
// @Summary      List sweets
// @Tags         sweets
// @Produce      json
// @Param        skip   query     int  false  "Entries to skip"   default(0)
// @Param        limit  query     int  false  "Page size (1-100)" default(100)
// @Success      200    {array}   sweetResponse
// @Failure      422    {object}  ErrorResponse
// @Router       /api/sweets [get]
func (h *SweetHandler) List(c echo.Context) error {
	skip, limit := 0, defaultPageSize
	err := echo.QueryParamsBinder(c).
		Int("skip", &skip).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return queryError(err, "must be an integer")
	}

	sweets, err := h.sweetService.List(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSweetResponses(sweets))
}

// Search filters available sweets. All parameters are optional and combined.
//
// @Summary      Search sweets
// @Tags         sweets
// @Produce      json
// @Param        name       query     string  false  "Partial name, case-insensitive"
// @Param        category   query     string  false  "Partial category, case-insensitive"
// @Param        min_price  query     number  false  "Inclusive lower price bound"
// @Param        max_price  query     number  false  "Inclusive upper price bound"
// @Success      200        {array}   sweetResponse
// @Failure      422        {object}  ErrorResponse
// @Router       /api/sweets/search [get]
func (h *SweetHandler) Search(c echo.Context) error {
	in := ports.SearchSweetsInput{
		Name:     c.QueryParam("name"),
		Category: c.QueryParam("category"),
	}

	var minPrice, maxPrice float64
	err := echo.QueryParamsBinder(c).
		Float64("min_price", &minPrice).
		Float64("max_price", &maxPrice).
		BindError()
	if err != nil {
		return queryError(err, "must be a number")
	}
	if c.QueryParam("min_price") != "" {
		if minPrice < 0 {
			return fieldInvalid("min_price", "must be greater than or equal to 0")
		}
		in.MinPrice = &minPrice
	}
	if c.QueryParam("max_price") != "" {
		if maxPrice < 0 {
			return fieldInvalid("max_price", "must be greater than or equal to 0")
		}
		in.MaxPrice = &maxPrice
	}

	sweets, err := h.sweetService.Search(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSweetResponses(sweets))
}

// Categories lists the distinct categories of available sweets.
//
// @Summary      List categories
// @Tags         sweets
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/sweets/categories/list [get]
func (h *SweetHandler) Categories(c echo.Context) error {
	categories, err := h.sweetService.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(http.StatusOK, categories)
}

// Get returns a single available sweet.
//
// @Summary      Get a sweet
// @Tags         sweets
// @Produce      json
// @Param        id   path      string  true  "Sweet ID"
// @Success      200  {object}  sweetResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/sweets/{id} [get]
func (h *SweetHandler) Get(c echo.Context) error {
	sweet, err := h.sweetService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSweetResponse(sweet))
}

// Create adds a sweet to the catalog.
//
// @Summary      Create a sweet
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSweetRequest  true  "New sweet"
// @Success      201   {object}  sweetResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /api/sweets [post]
func (h *SweetHandler) Create(c echo.Context) error {
	var req createSweetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sweet, err := h.sweetService.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	h.metrics.CatalogWritesTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toSweetResponse(sweet))
}

// Update applies a partial update to a sweet, available or not.
//
// @Summary      Update a sweet
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Sweet ID"
// @Param        body  body      updateSweetRequest  true  "Fields to change"
// @Success      200   {object}  sweetResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/sweets/{id} [put]
func (h *SweetHandler) Update(c echo.Context) error {
	var req updateSweetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sweet, err := h.sweetService.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	h.metrics.CatalogWritesTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toSweetResponse(sweet))
}

// Delete removes a sweet. Ledger entries that reference it are kept.
//
// @Summary      Delete a sweet
// @Tags         sweets
// @Security     BearerAuth
// @Param        id  path  string  true  "Sweet ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /api/sweets/{id} [delete]
func (h *SweetHandler) Delete(c echo.Context) error {
	if err := h.sweetService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	h.metrics.CatalogWritesTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
