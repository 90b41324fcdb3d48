package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bizpulse/bizpulse/internal/middleware"
	"github.com/bizpulse/bizpulse/internal/services"
)

// Router wires the HTTP surface to the service layer. Public routes serve the
// assessment flow; everything else requires an admin token.
type Router struct {
	Catalog     *services.CatalogService
	Submissions *services.SubmissionService
	Users       *services.UserService
	Analytics   *services.AnalyticsService
	Auth        *services.AuthService
	Reports     *services.ReportService
}

func (rt *Router) Register(mux *http.ServeMux) {
	// Public assessment flow.
	mux.HandleFunc("/api/assessment/questions", rt.handleAssessmentQuestions) // GET
	mux.HandleFunc("/api/assessment/submit", rt.handleAssessmentSubmit)       // POST
	mux.HandleFunc("/api/users/check-or-create", rt.handleCheckOrCreateUser)  // POST
	mux.HandleFunc("/api/auth/login", rt.handleLogin)                         // POST

	// Admin surface.
	mux.Handle("/api/questions", admin(rt.handleQuestions))          // GET
	mux.Handle("/api/submissions", admin(rt.handleSubmissions))      // GET, POST, DELETE
	mux.Handle("/api/users", admin(rt.handleUsers))                  // GET, PUT, DELETE
	mux.Handle("/api/dashboard/stats", admin(rt.handleStats))        // GET
	mux.Handle("/api/dashboard/charts", admin(rt.handleCharts))      // GET
	mux.Handle("/api/reports", admin(rt.handleReports))              // GET
}

func admin(h http.HandlerFunc) http.Handler {
	return middleware.RequireAuth(h)
}

// GET /api/assessment/questions?questionnaire_id=N
// Dimensions, questions, and options in catalog order. Defaults to the
// business health questionnaire.
func (rt *Router) handleAssessmentQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	qid := services.DefaultQuestionnaireID
	if raw := r.URL.Query().Get("questionnaire_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeErr(w, services.NewInvalidError("invalid questionnaire_id"))
			return
		}
		qid = parsed
	}
	cat, err := rt.Catalog.Load(r.Context(), qid)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat.Dimensions)
}

// POST /api/assessment/submit
// { user_id, questionnaire_id?, responses: [{questionId, selectedOptionIds}] }
// The outer ids are also accepted in camelCase for older clients.
func (rt *Router) handleAssessmentSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		UserID               int64             `json:"user_id"`
		QuestionnaireID      int64             `json:"questionnaire_id"`
		UserIDCamel          int64             `json:"userId"`
		QuestionnaireIDCamel int64             `json:"questionnaireId"`
		Responses            []services.Answer `json:"responses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, services.NewInvalidError("invalid request body"))
		return
	}
	if req.UserID == 0 {
		req.UserID = req.UserIDCamel
	}
	if req.QuestionnaireID == 0 {
		req.QuestionnaireID = req.QuestionnaireIDCamel
	}
	if req.QuestionnaireID == 0 {
		req.QuestionnaireID = services.DefaultQuestionnaireID
	}
	res, err := rt.Submissions.Submit(r.Context(), services.SubmitRequest{
		UserID:          req.UserID,
		QuestionnaireID: req.QuestionnaireID,
		Answers:         req.Responses,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"submissionId": res.SubmissionID,
		"score":        res.Score,
		"status":       res.Status,
	})
}

// POST /api/users/check-or-create
// Returns 201 when a new user row was created, 200 when the email existed.
func (rt *Router) handleCheckOrCreateUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, services.NewInvalidError("invalid request body"))
		return
	}
	id, created, err := rt.Users.CheckOrCreate(r.Context(), req.Name, req.Email)
	if err != nil {
		writeErr(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"id": id, "created": created})
}

// POST /api/auth/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, services.NewInvalidError("invalid request body"))
		return
	}
	res, err := rt.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": res.Token,
		"name":  res.Name,
		"email": res.Email,
	})
}

// GET /api/questions returns the flat admin listing across questionnaires.
func (rt *Router) handleQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	out, err := rt.Catalog.ListQuestions(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET/POST/DELETE /api/submissions
func (rt *Router) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		out, err := rt.Submissions.List(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req struct {
			UserID          int64   `json:"user_id"`
			QuestionnaireID int64   `json:"questionnaire_id"`
			TotalScore      float64 `json:"total_score"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, services.NewInvalidError("invalid request body"))
			return
		}
		id, err := rt.Submissions.Insert(r.Context(), req.UserID, req.QuestionnaireID, req.TotalScore)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": id})
	case http.MethodDelete:
		id, err := idParam(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := rt.Submissions.Delete(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET/PUT/DELETE /api/users
func (rt *Router) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		out, err := rt.Users.List(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPut:
		var req struct {
			ID    int64  `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, services.NewInvalidError("invalid request body"))
			return
		}
		if err := rt.Users.Update(r.Context(), req.ID, req.Name, req.Email); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case http.MethodDelete:
		id, err := idParam(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := rt.Users.Delete(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/dashboard/stats
func (rt *Router) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	out, err := rt.Analytics.Stats(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/dashboard/charts
func (rt *Router) handleCharts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	out, err := rt.Analytics.Charts(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/reports lists report metadata; GET /api/reports?id=N streams the
// stored PDF with an attachment disposition. Optional list filters: name
// (substring on user name) and date (YYYY-MM-DD).
func (rt *Router) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if raw := r.URL.Query().Get("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeErr(w, services.NewInvalidError("invalid report id"))
			return
		}
		f, err := rt.Reports.Download(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.FileName))
		_, _ = w.Write(f.PDF)
		return
	}
	out, err := rt.Reports.List(r.Context(), r.URL.Query().Get("name"), r.URL.Query().Get("date"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func idParam(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		return 0, services.NewInvalidError("id required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, services.NewInvalidError("invalid id")
	}
	return id, nil
}
