package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	apperrors "sentry-taiga/internal/common/errors"
	"sentry-taiga/internal/common/validation"
	"sentry-taiga/internal/connector"
	"sentry-taiga/internal/options"
)

const maskedPassword = "****"

type itemResponse struct {
	Ref   int64  `json:"ref"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

type configuredResponse struct {
	Slug       string `json:"slug"`
	ProjectID  string `json:"projectId"`
	Configured bool   `json:"configured"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	names := make([]string, 0, len(s.readyChecks))
	for name := range s.readyChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]string, len(names))
	status := http.StatusOK
	for _, name := range names {
		if err := s.readyChecks[name](ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	writeJSON(w, status, map[string]interface{}{"status": state, "checks": checks})
}

func (s *Server) listPlugins(w http.ResponseWriter, _ *http.Request) {
	list := s.items.Registry().List()
	out := make([]connector.Descriptor, 0, len(list))
	for _, c := range list {
		out = append(out, c.Descriptor())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getPlugin(w http.ResponseWriter, r *http.Request) {
	c, err := s.items.Connector(urlParam(r, "slug"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Descriptor())
}

func (s *Server) getConfigured(w http.ResponseWriter, r *http.Request) {
	slug, projectID := urlParam(r, "slug"), urlParam(r, "projectID")
	ok, err := s.items.IsConfigured(r.Context(), slug, projectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, configuredResponse{Slug: slug, ProjectID: projectID, Configured: ok})
}

func (s *Server) getOptions(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.items.Options(r.Context(), urlParam(r, "slug"), urlParam(r, "projectID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := options.ToOptions(cfg)
	if _, ok := out[connector.OptionPassword]; ok {
		out[connector.OptionPassword] = maskedPassword
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) putOptions(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	if result := validation.ValidateInput(body, optionsSchema()); !result.Valid {
		writeDomainError(w, apperrors.NewValidationFailedError(
			fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()),
		))
		return
	}

	values := make(map[string]string, len(body))
	for k, v := range body {
		values[k] = v.(string)
	}
	// Re-sending the masked placeholder keeps the stored password.
	if values[connector.OptionPassword] == maskedPassword {
		delete(values, connector.OptionPassword)
	}

	if err := s.items.SaveOptions(r.Context(), urlParam(r, "slug"), urlParam(r, "projectID"), values); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	if result := validation.ValidateInput(body, formSchema()); !result.Valid {
		writeDomainError(w, apperrors.NewValidationFailedError(
			fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()),
		))
		return
	}

	form := connector.FormInput{Title: body["title"].(string)}
	if description, ok := body["description"].(string); ok {
		form.Description = description
	}

	slug, projectID := urlParam(r, "slug"), urlParam(r, "projectID")
	result, err := s.items.Create(r.Context(), slug, projectID, form)
	if err != nil {
		s.logger.Warn("Item creation rejected", map[string]interface{}{
			"plugin":    slug,
			"projectId": projectID,
			"error":     err.Error(),
			"requestId": r.Header.Get(requestIDHeader),
		})
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, itemResponse{Ref: result.Ref, Label: result.Label, URL: result.URL})
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	ref, err := strconv.ParseInt(urlParam(r, "ref"), 10, 64)
	if err != nil || ref <= 0 {
		writeError(w, http.StatusBadRequest, string(apperrors.ErrCodeValidationFailed), "ref must be a positive integer")
		return
	}

	link, err := s.items.Link(r.Context(), urlParam(r, "slug"), urlParam(r, "projectID"), ref)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemResponse{Ref: ref, Label: link.Label, URL: link.URL})
}

func formSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"title"},
		Properties: map[string]validation.Property{
			"title": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
				MaxLength: validation.IntPtr(500),
			},
			"description": {
				Type: "string",
			},
		},
		AdditionalProperties: false,
	}
}

func optionsSchema() validation.JSONSchema {
	props := map[string]validation.Property{}
	for _, key := range []string{
		connector.OptionServiceURL,
		connector.OptionAPIURL,
		connector.OptionUsername,
		connector.OptionPassword,
		connector.OptionProjectSlug,
		connector.OptionLabels,
	} {
		props[key] = validation.Property{Type: "string", MaxLength: validation.IntPtr(2048)}
	}
	return validation.JSONSchema{
		Type:                 "object",
		Properties:           props,
		AdditionalProperties: false,
	}
}
