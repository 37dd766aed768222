package stubserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/investbank/pipeline-client/internal/core/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	acc, ok := s.store.findUser(req.Username)
	if !ok || !acc.Active {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.passwordHash), []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	token, err := s.issueToken(acc)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "token generation failed"})
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:    token,
		Username: acc.Username,
		Email:    acc.Email,
		Role:     string(acc.Role),
	})
}

func (s *Server) currentUser(c echo.Context) error {
	username, _ := c.Get("username").(string)
	acc, ok := s.store.findUser(username)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unknown user"})
	}
	return c.JSON(http.StatusOK, acc.User)
}

type createDealRequest struct {
	ClientName   string `json:"clientName"`
	DealType     string `json:"dealType"`
	Sector       string `json:"sector"`
	DealValue    int64  `json:"dealValue"`
	CurrentStage string `json:"currentStage"`
	Summary      string `json:"summary"`
	AssignedTo   string `json:"assignedTo"`
}

func (s *Server) createDeal(c echo.Context) error {
	var req createDealRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if req.ClientName == "" || req.DealType == "" || req.Sector == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing required fields"})
	}
	if !domain.DealStage(req.CurrentStage).Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid stage"})
	}
	if req.DealValue <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "deal value must be positive"})
	}

	username, _ := c.Get("username").(string)
	now := time.Now().UTC()
	value := req.DealValue
	deal := &domain.Deal{
		ID:           uuid.NewString(),
		ClientName:   req.ClientName,
		DealType:     domain.DealType(req.DealType),
		Sector:       req.Sector,
		DealValue:    &value,
		CurrentStage: domain.DealStage(req.CurrentStage),
		Summary:      req.Summary,
		Notes:        []domain.Note{},
		CreatedBy:    username,
		AssignedTo:   req.AssignedTo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.store.putDeal(deal)
	return c.JSON(http.StatusCreated, deal)
}

func (s *Server) listDeals(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.listDeals())
}

func (s *Server) getDeal(c echo.Context) error {
	deal, ok := s.store.getDeal(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "deal not found"})
	}
	return c.JSON(http.StatusOK, deal)
}

type updateDealRequest struct {
	ClientName string `json:"clientName"`
	DealType   string `json:"dealType"`
	Sector     string `json:"sector"`
	Summary    string `json:"summary"`
	AssignedTo string `json:"assignedTo"`
}

func (s *Server) updateDeal(c echo.Context) error {
	var req updateDealRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	deal, ok := s.store.mutateDeal(c.Param("id"), func(d *domain.Deal) {
		d.ClientName = req.ClientName
		d.DealType = domain.DealType(req.DealType)
		d.Sector = req.Sector
		d.Summary = req.Summary
		d.AssignedTo = req.AssignedTo
	})
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "deal not found"})
	}
	return c.JSON(http.StatusOK, deal)
}

type updateStageRequest struct {
	Stage string `json:"stage"`
}

func (s *Server) updateStage(c echo.Context) error {
	var req updateStageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	// Any stage-to-stage move is accepted; transition policy lives here, in
	// the backend, not in the client.
	if !domain.DealStage(req.Stage).Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid stage"})
	}

	deal, ok := s.store.mutateDeal(c.Param("id"), func(d *domain.Deal) {
		d.CurrentStage = domain.DealStage(req.Stage)
	})
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "deal not found"})
	}
	return c.JSON(http.StatusOK, deal)
}

type updateValueRequest struct {
	DealValue int64 `json:"dealValue"`
}

func (s *Server) updateValue(c echo.Context) error {
	var req updateValueRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if req.DealValue <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "deal value must be positive"})
	}

	deal, ok := s.store.mutateDeal(c.Param("id"), func(d *domain.Deal) {
		value := req.DealValue
		d.DealValue = &value
	})
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "deal not found"})
	}
	return c.JSON(http.StatusOK, deal)
}

type addNoteRequest struct {
	Note string `json:"note"`
}

func (s *Server) addNote(c echo.Context) error {
	var req addNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if strings.TrimSpace(req.Note) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "note cannot be empty"})
	}

	username, _ := c.Get("username").(string)
	deal, ok := s.store.mutateDeal(c.Param("id"), func(d *domain.Deal) {
		d.Notes = append(d.Notes, domain.Note{
			UserID:    username,
			Note:      req.Note,
			Timestamp: time.Now().UTC(),
		})
	})
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "deal not found"})
	}
	return c.JSON(http.StatusOK, deal)
}

func (s *Server) deleteDeal(c echo.Context) error {
	if !s.store.deleteDeal(c.Param("id")) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "deal not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.listUsers())
}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) createUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing required fields"})
	}
	role := domain.Role(req.Role)
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid role"})
	}
	if _, exists := s.store.findUser(req.Username); exists {
		return c.JSON(http.StatusConflict, map[string]string{"error": "user already exists"})
	}

	acc := s.store.addUser(req.Username, req.Email, role, mustHash(req.Password))
	return c.JSON(http.StatusCreated, acc.User)
}

func (s *Server) setUserStatus(c echo.Context) error {
	acc, ok := s.store.findUserByID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
	}

	active := c.QueryParam("active") == "true"
	acc.Active = active
	return c.JSON(http.StatusOK, acc.User)
}
