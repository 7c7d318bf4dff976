package server

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/blake3"

	"GoIK/internal/analysis"
	"GoIK/internal/dict"
)

// DefaultCacheSize is the number of analyzed texts kept when the caller
// does not choose a size.
const DefaultCacheSize = 1024

// syncTimeout bounds an on-demand sync triggered over HTTP.
const syncTimeout = 2 * time.Minute

// Handler holds HTTP handlers for the segmentation API.
type Handler struct {
	mgr    *ProfileManager
	dict   *dict.Dictionary
	cache  *lru.Cache[string, []analysis.Token]
	logger *slog.Logger
}

// NewHandler creates a new Handler backed by the given ProfileManager.
func NewHandler(mgr *ProfileManager, cacheSize int, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, []analysis.Token](cacheSize)
	if err != nil {
		panic("server: " + err.Error())
	}
	return &Handler{mgr: mgr, dict: mgr.Dictionary(), cache: cache, logger: logger}
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Profile lifecycle.
	mux.HandleFunc("GET /profiles", h.handleListProfiles)
	mux.HandleFunc("POST /profiles", h.handleCreateProfile)
	mux.HandleFunc("GET /profiles/{name}", h.handleGetProfile)
	mux.HandleFunc("DELETE /profiles/{name}", h.handleDeleteProfile)

	// Segmentation.
	mux.HandleFunc("GET /analyzers", h.handleListAnalyzers)
	mux.HandleFunc("POST /analyzers/{name}/analyze", h.handleAnalyzerAnalyze)
	mux.HandleFunc("POST /profiles/{name}/analyze", h.handleAnalyze)
	mux.HandleFunc("GET /profiles/{name}/stream", h.handleStream)

	// Vocabulary.
	mux.HandleFunc("POST /profiles/{name}/sync", h.handleSync)
	mux.HandleFunc("POST /dictionary/words", h.handleAddWords)
	mux.HandleFunc("DELETE /dictionary/words", h.handleDisableWords)
	mux.HandleFunc("GET /dictionary/words/{word}", h.handleLookupWord)
	mux.HandleFunc("GET /dictionary/stats", h.handleStats)
}

// --- Profile Lifecycle ---

func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	names := h.mgr.ListProfiles()

	infos := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		inst, err := h.mgr.GetProfile(name)
		if err != nil {
			continue
		}
		infos = append(infos, inst.ProfileInfo())
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profiles": infos,
	})
}

func (h *Handler) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var spec ProfileSpec
	if err := decodeJSON(w, r, &spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	inst, err := h.mgr.CreateProfile(spec)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileExists):
			writeError(w, http.StatusConflict, "profile already exists: "+spec.Name)
		case errors.Is(err, ErrInvalidProfile):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to create profile", "name", spec.Name, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to create profile")
		}
		return
	}

	writeJSON(w, http.StatusCreated, inst.ProfileInfo())
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.profile(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, inst.ProfileInfo())
}

func (h *Handler) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := h.mgr.DeleteProfile(name); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "profile not found: "+name)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"acknowledged": true,
	})
}

// --- Segmentation ---

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.profile(w, r)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	start := time.Now()
	tokens, generation, cached := h.analyze(inst.ID, inst.Analyzer, req.Text)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile":    inst.Spec.Name,
		"generation": generation,
		"cached":     cached,
		"took":       time.Since(start).Milliseconds(),
		"tokens":     tokens,
	})
}

func (h *Handler) handleListAnalyzers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"analyzers": h.mgr.Analyzers().Names(),
	})
}

func (h *Handler) handleAnalyzerAnalyze(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	a, err := h.mgr.Analyzers().Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	start := time.Now()
	tokens, generation, cached := h.analyze("analyzer:"+name, a, req.Text)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"analyzer":   name,
		"generation": generation,
		"cached":     cached,
		"took":       time.Since(start).Milliseconds(),
		"tokens":     tokens,
	})
}

// analyze returns the tokens of text, served from the cache when the same
// owner already analyzed it against the current dictionary generation.
func (h *Handler) analyze(owner string, a analysis.Analyzer, text string) ([]analysis.Token, uint64, bool) {
	generation := h.dict.Generation()
	key := cacheKey(owner, generation, text)
	if tokens, ok := h.cache.Get(key); ok {
		return tokens, generation, true
	}
	tokens := a.Analyze("", text)
	if tokens == nil {
		tokens = []analysis.Token{}
	}
	h.cache.Add(key, tokens)
	return tokens, generation, false
}

func cacheKey(owner string, generation uint64, text string) string {
	sum := blake3.Sum256([]byte(text))
	return owner + "/" + strconv.FormatUint(generation, 10) + "/" + hex.EncodeToString(sum[:])
}

// --- Vocabulary ---

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.profile(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), syncTimeout)
	defer cancel()

	res, err := inst.Syncer.SyncOnce(ctx)
	if err != nil {
		h.logger.Warn("sync failed", "profile", inst.Spec.Name, "error", err)
		writeError(w, http.StatusBadGateway, "sync failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type wordsRequest struct {
	Words []string `json:"words"`
	// Kind is "main" (default) or "stop".
	Kind string `json:"kind"`
}

func (h *Handler) decodeWords(w http.ResponseWriter, r *http.Request) (wordsRequest, bool) {
	var req wordsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return req, false
	}
	if len(req.Words) == 0 {
		writeError(w, http.StatusBadRequest, "words must not be empty")
		return req, false
	}
	switch req.Kind {
	case "", "main", "stop":
	default:
		writeError(w, http.StatusBadRequest, "unknown kind: "+req.Kind)
		return req, false
	}
	return req, true
}

func (h *Handler) handleAddWords(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeWords(w, r)
	if !ok {
		return
	}
	var changed int
	if req.Kind == "stop" {
		changed = h.dict.AddStopWords(req.Words)
	} else {
		changed = h.dict.AddWords(req.Words)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"changed":    changed,
		"generation": h.dict.Generation(),
	})
}

func (h *Handler) handleDisableWords(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeWords(w, r)
	if !ok {
		return
	}
	var changed int
	if req.Kind == "stop" {
		changed = h.dict.DisableStopWords(req.Words)
	} else {
		changed = h.dict.DisableWords(req.Words)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"changed":    changed,
		"generation": h.dict.Generation(),
	})
}

func (h *Handler) handleLookupWord(w http.ResponseWriter, r *http.Request) {
	word := r.PathValue("word")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"word":      word,
		"main":      h.dict.Contains(word),
		"stop_word": h.dict.IsStopWord(word),
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.dict.Stats())
}

// --- Helpers ---

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) (*ProfileInstance, bool) {
	name := r.PathValue("name")
	inst, err := h.mgr.GetProfile(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "profile not found: "+name)
		return nil, false
	}
	return inst, true
}
