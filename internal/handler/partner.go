package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/evergreenmedia/podcast-partner-api/internal/config"
	"github.com/evergreenmedia/podcast-partner-api/internal/model"
	"github.com/evergreenmedia/podcast-partner-api/internal/repository"
)

// PartnerHandler implements account management and show/partner
// association endpoints.
type PartnerHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Shows  *repository.ShowRepo
	Tokens *repository.TokenRepo
}

func NewPartnerHandler(cfg config.Config, users *repository.UserRepo, shows *repository.ShowRepo, tokens *repository.TokenRepo) *PartnerHandler {
	if users == nil || shows == nil || tokens == nil {
		panic("nil repository passed to NewPartnerHandler")
	}
	return &PartnerHandler{Cfg: cfg, Users: users, Shows: shows, Tokens: tokens}
}

type passwordReq struct {
	Password string `json:"password"`
}

func (h *PartnerHandler) createAccount(c echo.Context, forceRole string) error {
	var in model.UserInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if forceRole != "" {
		in.Role = forceRole
	}
	if in.Role != model.RoleAdmin && in.Role != model.RolePartner {
		in.Role = model.RolePartner
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.Create(ctx, &in, h.Cfg.BcryptCost)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, toUserPart(u))
}

// CreateUser creates an account with the role supplied in the payload.
func (h *PartnerHandler) CreateUser(c echo.Context) error {
	return h.createAccount(c, "")
}

// CreatePartner creates an account that is always a partner, whatever role
// the payload claims.
func (h *PartnerHandler) CreatePartner(c echo.Context) error {
	return h.createAccount(c, model.RolePartner)
}

// ListUsers returns every account, redacted.
func (h *PartnerHandler) ListUsers(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	users, err := h.Users.GetAll(ctx)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]userPart, 0, len(users))
	for i := range users {
		out = append(out, toUserPart(&users[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// UpdatePassword replaces a user's password and logs them out of every
// session: all refresh tokens issued under the old password are revoked.
func (h *PartnerHandler) UpdatePassword(c echo.Context) error {
	var req passwordReq
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	id := c.Param("id")
	if err := h.Users.UpdatePassword(ctx, id, req.Password, h.Cfg.BcryptCost); err != nil {
		return repoError(c, err)
	}
	if err := h.Tokens.RevokeAllForUser(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteUser removes a user and all of their show associations.
func (h *PartnerHandler) DeleteUser(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Users.Delete(ctx, c.Param("id")); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Associate links a partner to a show. Both sides must exist.
func (h *PartnerHandler) Associate(c echo.Context) error {
	showID := c.Param("show_id")
	partnerID := c.Param("partner_id")

	ctx, cancel := reqContext(c)
	defer cancel()

	show, err := h.Shows.GetByID(ctx, showID)
	if err != nil {
		return repoError(c, err)
	}
	partner, uerr := h.Users.GetByID(ctx, partnerID)
	if uerr != nil {
		return repoError(c, uerr)
	}
	if show == nil || partner == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show or partner not found"})
	}

	if err := h.Users.Associate(ctx, showID, partnerID); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"show_id": showID, "partner_id": partnerID})
}

// Unassociate removes one show/partner link.
func (h *PartnerHandler) Unassociate(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Users.Unassociate(ctx, c.Param("show_id"), c.Param("partner_id")); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MyShows lists the shows associated with the authenticated partner.
func (h *PartnerHandler) MyShows(c echo.Context) error {
	id, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return h.listShowsFor(c, id)
}

// PartnerShows lists the shows associated with an arbitrary partner id.
func (h *PartnerHandler) PartnerShows(c echo.Context) error {
	return h.listShowsFor(c, c.Param("id"))
}

func (h *PartnerHandler) listShowsFor(c echo.Context, partnerID string) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	shows, err := h.Shows.ListForPartner(ctx, partnerID)
	if err != nil {
		if repository.IsInfra(err) {
			return repoError(c, err)
		}
		// partner listings report statement failures, unlike GetAll
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, shows)
}
