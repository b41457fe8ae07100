package api

import (
	"net/http"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/service"
)

type groupPayload struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	Active    bool     `json:"active"`
	CreatedAt int64    `json:"createdAt"`
	CreatedBy string   `json:"createdBy"`
}

func toGroupPayload(g *models.Group) groupPayload {
	members := make([]string, len(g.Members))
	for i, m := range g.Members {
		members[i] = string(m)
	}
	return groupPayload{
		ID:        g.ID,
		Name:      g.Name,
		Members:   members,
		Active:    g.Active,
		CreatedAt: g.CreatedAt,
		CreatedBy: string(g.CreatedBy),
	}
}

func memberIDs(ids []string) []models.MemberID {
	out := make([]models.MemberID, len(ids))
	for i, id := range ids {
		out[i] = models.MemberID(id)
	}
	return out
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	actor, err := service.ActingMember(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: err.Error()})
		return
	}

	var req struct {
		Name    string   `json:"name"`
		Members []string `json:"members"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: err.Error()})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "name is required"})
		return
	}

	group, err := s.groups.Create(r.Context(), req.Name, actor, memberIDs(req.Members))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toGroupPayload(group))
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	actor, err := service.ActingMember(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: err.Error()})
		return
	}

	groups, err := s.groups.ListForMember(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	payload := make([]groupPayload, len(groups))
	for i, g := range groups {
		payload[i] = toGroupPayload(g)
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": payload})
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	actor, err := service.ActingMember(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: err.Error()})
		return
	}

	group, err := s.groups.Get(r.Context(), r.PathValue("id"), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupPayload(group))
}

func (s *Server) handleAddMembers(w http.ResponseWriter, r *http.Request) {
	actor, err := service.ActingMember(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: err.Error()})
		return
	}

	var req struct {
		Members []string `json:"members"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: err.Error()})
		return
	}

	group, err := s.groups.AddMembers(r.Context(), r.PathValue("id"), actor, memberIDs(req.Members))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupPayload(group))
}

func (s *Server) handleCloseGroup(w http.ResponseWriter, r *http.Request) {
	actor, err := service.ActingMember(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: err.Error()})
		return
	}

	group, err := s.groups.Close(r.Context(), r.PathValue("id"), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupPayload(group))
}
