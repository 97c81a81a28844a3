package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/dmitrijs2005/oculog/internal/common"
	"github.com/dmitrijs2005/oculog/internal/devapi/users"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const tokenType = "bearer"

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.Health{Status: "ok"})
}

func writeTokens(w http.ResponseWriter, status int, p *users.TokenPair) {
	writeJSON(w, status, models.TokenPair{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken, TokenType: tokenType})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Info(r.Context(), "Login rejected")
			writeError(w, http.StatusUnauthorized, kindInvalidCredentials, "Invalid email or password", nil)
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	writeTokens(w, http.StatusOK, pair)
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := s.users.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusBadRequest, kindEmailExists, "Email already registered", nil)
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered")
	writeTokens(w, http.StatusCreated, pair)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := s.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrRefreshTokenExpired) {
			writeError(w, http.StatusUnauthorized, kindUnauthorized, "Invalid or expired refresh token", nil)
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	writeTokens(w, http.StatusOK, pair)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	u, err := s.users.UserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusUnauthorized, kindUnauthorized, "Unknown user", nil)
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	email := u.Email
	out := models.User{
		ID:        u.ID,
		Login:     u.Email,
		Email:     &email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.Timezone != "" {
		tz := u.Timezone
		out.Timezone = &tz
	}
	writeJSON(w, http.StatusOK, out)
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &common.ValidationError{Field: name, Reason: "must be an integer"}
	}
	return v, nil
}

func parseLogFilter(r *http.Request) (models.LogFilter, error) {
	q := r.URL.Query()
	f := models.LogFilter{StartDate: q.Get("start_date"), EndDate: q.Get("end_date")}

	var err error
	if f.Page, err = queryInt(r, "page", 1); err != nil {
		return f, err
	}
	if f.PageSize, err = queryInt(r, "page_size", 0); err != nil {
		return f, err
	}
	if raw := q.Get("sort_field"); raw != "" {
		if f.SortField, err = models.ParseSortField(raw); err != nil {
			return f, &common.ValidationError{Field: "sort_field", Reason: "must be log_date or overall_rating"}
		}
	}
	if raw := q.Get("sort_order"); raw != "" {
		if f.SortOrder, err = models.ParseSortOrder(raw); err != nil {
			return f, &common.ValidationError{Field: "sort_order", Reason: "must be asc or desc"}
		}
	}
	return f, nil
}

func (s *Server) listLogs(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	f, err := parseLogFilter(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	page, err := s.logs.List(r.Context(), userID, f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) createLog(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	var req models.LogCreate
	if !decodeBody(w, r, &req) {
		return
	}

	e, err := s.logs.Create(r.Context(), userID, req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func logID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func (s *Server) updateLog(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	id, ok := logID(r)
	if !ok {
		writeError(w, http.StatusNotFound, kindNotFound, "Log not found", nil)
		return
	}

	var req models.LogUpdate
	if !decodeBody(w, r, &req) {
		return
	}

	e, err := s.logs.Update(r.Context(), userID, id, req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) deleteLog(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	id, ok := logID(r)
	if !ok {
		writeError(w, http.StatusNotFound, kindNotFound, "Log not found", nil)
		return
	}

	if err := s.logs.Delete(r.Context(), userID, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryCoordinate(r *http.Request, name string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil || v < -limit || v > limit {
		return 0, &common.ValidationError{Field: name, Reason: "is out of range"}
	}
	return v, nil
}

func (s *Server) weather(w http.ResponseWriter, r *http.Request) {
	lat, err := queryCoordinate(r, "latitude", 90)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	lon, err := queryCoordinate(r, "longitude", 180)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SyntheticWeather(lat, lon, s.now()))
}
