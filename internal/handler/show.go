package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evergreenmedia/podcast-partner-api/internal/model"
	"github.com/evergreenmedia/podcast-partner-api/internal/queue"
	"github.com/evergreenmedia/podcast-partner-api/internal/repository"
	queuepublisher "github.com/evergreenmedia/podcast-partner-api/internal/service"
)

// ShowHandler implements the admin podcast endpoints.
type ShowHandler struct {
	Shows *repository.ShowRepo
}

func NewShowHandler(shows *repository.ShowRepo) *ShowHandler {
	if shows == nil {
		panic("nil repository passed to NewShowHandler")
	}
	return &ShowHandler{Shows: shows}
}

// Create inserts one show. Title is the only required field; everything
// else defaults. Duplicate titles are rejected with 409.
func (h *ShowHandler) Create(c echo.Context) error {
	var in model.ShowInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	show, err := h.Shows.Create(ctx, &in)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, show)
}

type bulkImportResp struct {
	Message    string   `json:"message"`
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
}

// BulkImport creates shows from a spreadsheet-shaped array: row numbers in
// error messages are offset by two to line up with the source sheet (header
// row plus one-based counting). Rows without a title are skipped. The
// outcome is published to the import queue for the audit log; a broker
// failure never affects the response.
func (h *ShowHandler) BulkImport(c echo.Context) error {
	var inputs []model.ShowInput
	if err := c.Bind(&inputs); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	resp := bulkImportResp{Total: len(inputs), Errors: []string{}}
	for i := range inputs {
		in := &inputs[i]
		if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
			resp.Failed++
			resp.Errors = append(resp.Errors, fmt.Sprintf("Row %d: show title is missing or empty and is required.", i+2))
			continue
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
		_, err := h.Shows.Create(ctx, in)
		cancel()
		if err != nil {
			if repository.IsInfra(err) {
				return repoError(c, err)
			}
			resp.Failed++
			resp.Errors = append(resp.Errors, fmt.Sprintf("Row %d ('%s'): %s", i+2, *in.Title, err.Error()))
			continue
		}
		resp.Successful++
	}

	resp.Message = "Bulk import process completed."
	if resp.Failed > 0 && resp.Successful == 0 {
		resp.Message = "All show imports failed. Please check the errors below."
	}

	actorID, _ := currentUserID(c)
	_ = queuepublisher.PublishImportCompleted(c.Request().Context(), queue.ImportCompletedEvent{
		ActorID:     actorID,
		Total:       resp.Total,
		Successful:  resp.Successful,
		Failed:      resp.Failed,
		Errors:      resp.Errors,
		CompletedAt: time.Now().UTC().Format("2006-01-02 15:04:05"),
	})

	return c.JSON(http.StatusOK, resp)
}

// List returns every show. The repository degrades statement failures to an
// empty list, so this endpoint only errors on infra failure.
func (h *ShowHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	shows, err := h.Shows.GetAll(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, shows)
}

// Filter returns shows matching the query-string criteria. Unknown query
// parameters are ignored; only the fixed filter fields ever reach SQL.
func (h *ShowHandler) Filter(c echo.Context) error {
	var f model.ShowFilter
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid filter"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	shows, err := h.Shows.Filter(ctx, &f)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, shows)
}

// Get returns one show by id.
func (h *ShowHandler) Get(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	show, err := h.Shows.GetByID(ctx, c.Param("id"))
	if err != nil {
		return repoError(c, err)
	}
	if show == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "podcast not found"})
	}
	return c.JSON(http.StatusOK, show)
}

// Update applies a partial update to one show.
func (h *ShowHandler) Update(c echo.Context) error {
	var in model.ShowInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	show, err := h.Shows.Update(ctx, c.Param("id"), &in)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, show)
}

// Delete removes one show by id.
func (h *ShowHandler) Delete(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Shows.Delete(ctx, c.Param("id")); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
