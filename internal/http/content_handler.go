package http

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecotrack/internal/domain"
)

// maxMediaSize limita los archivos adjuntos de reportes a 10MB.
const maxMediaSize = 10 << 20

// ContentHandler sirve los endpoints de contenido mock: challenges,
// educación, marketplace, reportes, dashboard y resumen de perfil.
// Superficie de colaborador: formas fijas, sin persistencia real.
type ContentHandler struct {
	logger     *zap.Logger
	storageDir string
	debug      bool
}

func NewContentHandler(logger *zap.Logger, storageDir string, debug bool) *ContentHandler {
	return &ContentHandler{
		logger:     logger,
		storageDir: storageDir,
		debug:      debug,
	}
}

func mockChallenges(participantID string) []domain.Challenge {
	return []domain.Challenge{
		{
			ID:           uuid.NewString(),
			Title:        "Beach Cleanup Challenge",
			Description:  "Join us in cleaning local beaches to protect marine life",
			StartDate:    "2024-01-15T09:00:00Z",
			EndDate:      "2024-01-31T18:00:00Z",
			Goal:         100,
			Participants: []string{participantID},
		},
		{
			ID:           uuid.NewString(),
			Title:        "Tree Planting Initiative",
			Description:  "Plant trees in urban areas to improve air quality",
			StartDate:    "2024-02-01T08:00:00Z",
			EndDate:      "2024-02-28T17:00:00Z",
			Goal:         500,
			Participants: []string{},
		},
	}
}

// ListChallenges maneja GET /api/challenges con filtros location y project_type.
func (h *ContentHandler) ListChallenges(c *gin.Context) {
	user, _ := CurrentUser(c)
	challenges := mockChallenges(user.ID)

	if location := c.Query("location"); location != "" {
		challenges = filterChallenges(challenges, func(ch domain.Challenge) bool {
			return strings.Contains(strings.ToLower(ch.Title), strings.ToLower(location))
		})
	}

	if projectType := c.Query("project_type"); projectType != "" {
		challenges = filterChallenges(challenges, func(ch domain.Challenge) bool {
			title := strings.ToLower(ch.Title)
			switch projectType {
			case "cleanup":
				return strings.Contains(title, "cleanup")
			case "tree_planting":
				return strings.Contains(title, "tree") || strings.Contains(title, "plant")
			case "education":
				return strings.Contains(title, "education") || strings.Contains(title, "learn")
			case "awareness":
				return strings.Contains(title, "awareness") || strings.Contains(title, "campaign")
			default:
				return true
			}
		})
	}

	c.JSON(http.StatusOK, challenges)
}

func filterChallenges(in []domain.Challenge, keep func(domain.Challenge) bool) []domain.Challenge {
	out := make([]domain.Challenge, 0, len(in))
	for _, ch := range in {
		if keep(ch) {
			out = append(out, ch)
		}
	}
	return out
}

// CreateChallenge maneja POST /api/challenges.
func (h *ContentHandler) CreateChallenge(c *gin.Context) {
	var req struct {
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		StartDate    string   `json:"start_date"`
		EndDate      string   `json:"end_date"`
		Goal         int      `json:"goal"`
		Participants []string `json:"participants"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest,
			"title, description, start_date, end_date, and goal are required", CodeMissingFields)
		return
	}
	if req.Title == "" || req.Description == "" || req.StartDate == "" || req.EndDate == "" || req.Goal == 0 {
		respondError(c, http.StatusBadRequest,
			"title, description, start_date, end_date, and goal are required", CodeMissingFields)
		return
	}

	participants := req.Participants
	if participants == nil {
		participants = []string{}
	}

	c.JSON(http.StatusCreated, domain.Challenge{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Goal:         req.Goal,
		Participants: participants,
	})
}

// GetChallenge maneja GET /api/challenges/:challenge_id.
func (h *ContentHandler) GetChallenge(c *gin.Context) {
	user, _ := CurrentUser(c)
	c.JSON(http.StatusOK, domain.Challenge{
		ID:           c.Param("challenge_id"),
		Title:        "Beach Cleanup Challenge",
		Description:  "Join us in cleaning local beaches to protect marine life",
		StartDate:    "2024-01-15T09:00:00Z",
		EndDate:      "2024-01-31T18:00:00Z",
		Goal:         100,
		Participants: []string{user.ID},
	})
}

// ListEducation maneja GET /api/education con filtros category y level.
// Category y level se usan para filtrar pero no salen en la respuesta.
func (h *ContentHandler) ListEducation(c *gin.Context) {
	content := []domain.EducationItem{
		{
			ID:       uuid.NewString(),
			Title:    "Understanding Climate Change",
			Content:  "A comprehensive guide to climate science and its impacts",
			Category: "climate",
			Level:    "beginner",
		},
		{
			ID:       uuid.NewString(),
			Title:    "Advanced Waste Management Techniques",
			Content:  "Expert-level strategies for reducing waste in organizations",
			Category: "waste",
			Level:    "expert",
		},
		{
			ID:       uuid.NewString(),
			Title:    "Biodiversity Conservation Basics",
			Content:  "Introduction to protecting local ecosystems and wildlife",
			Category: "biodiversity",
			Level:    "beginner",
		},
	}

	category := c.Query("category")
	level := c.Query("level")

	filtered := make([]domain.EducationItem, 0, len(content))
	for _, item := range content {
		if category != "" && item.Category != category {
			continue
		}
		if level != "" && item.Level != level {
			continue
		}
		filtered = append(filtered, item)
	}

	c.JSON(http.StatusOK, filtered)
}

// ListMarketplace maneja GET /api/marketplace con filtro product_category.
func (h *ContentHandler) ListMarketplace(c *gin.Context) {
	products := []domain.Product{
		{ID: uuid.NewString(), Name: "Bamboo Water Bottle", Brand: "EcoBottle Co.", Impact: 25, Category: "reusable"},
		{ID: uuid.NewString(), Name: "Organic Cotton Tote Bag", Brand: "GreenBags Ltd.", Impact: 15, Category: "reusable"},
		{ID: uuid.NewString(), Name: "Solar Phone Charger", Brand: "SolarTech", Impact: 50, Category: "eco_brands"},
	}

	category := c.Query("product_category")
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		filtered = append(filtered, p)
	}

	c.JSON(http.StatusOK, filtered)
}

// SubmitIssueReport maneja POST /api/issue-reports. Acepta multipart con un
// archivo opcional "media" (imagen o video, hasta 10MB) o JSON plano.
func (h *ContentHandler) SubmitIssueReport(c *gin.Context) {
	var userID, location, description, mediaURL string

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		userID = c.PostForm("user_id")
		location = c.PostForm("location")
		description = c.PostForm("description")

		file, err := c.FormFile("media")
		if err == nil {
			if file.Size > maxMediaSize {
				respondError(c, http.StatusBadRequest, "Media file too large", CodeMissingFields)
				return
			}
			contentType := file.Header.Get("Content-Type")
			if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
				respondError(c, http.StatusBadRequest, "Only image and video files are allowed", CodeMissingFields)
				return
			}
			name := uuid.NewString() + filepath.Ext(file.Filename)
			if err := c.SaveUploadedFile(file, filepath.Join(h.storageDir, name)); err != nil {
				h.logger.Error("save media failed", zap.Error(err))
				respondInternalError(c, err, h.debug)
				return
			}
			mediaURL = "/storage/" + name
		}
	} else {
		var req struct {
			UserID      string `json:"user_id"`
			Location    string `json:"location"`
			Description string `json:"description"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest,
				"user_id, location, and description are required", CodeMissingFields)
			return
		}
		userID, location, description = req.UserID, req.Location, req.Description
	}

	if userID == "" || location == "" || description == "" {
		respondError(c, http.StatusBadRequest,
			"user_id, location, and description are required", CodeMissingFields)
		return
	}

	c.JSON(http.StatusCreated, domain.IssueReport{
		ID:          uuid.NewString(),
		UserID:      userID,
		Location:    location,
		Description: description,
		MediaURL:    mediaURL,
		Status:      "pending",
	})
}

// GetIssueReport maneja GET /api/issue-reports/:report_id.
func (h *ContentHandler) GetIssueReport(c *gin.Context) {
	user, _ := CurrentUser(c)
	c.JSON(http.StatusOK, domain.IssueReport{
		ID:          c.Param("report_id"),
		UserID:      user.ID,
		Location:    "Beach Park, Santa Monica",
		Description: "Large amount of plastic waste washed up on shore",
		MediaURL:    "https://picsum.photos/id/237/400/300",
		Status:      "pending",
	})
}

// GetDashboard maneja GET /api/dashboard con el filtro time_range.
func (h *ContentHandler) GetDashboard(c *gin.Context) {
	var impactScore int
	switch c.Query("time_range") {
	case "today":
		impactScore = 15
	case "this_week":
		impactScore = 75
	case "this_month":
		impactScore = 150
	default:
		impactScore = 500 // Histórico completo.
	}

	c.JSON(http.StatusOK, domain.DashboardSummary{
		ImpactScore:  impactScore,
		Achievements: []string{"Eco-Champion", "Tree Planter", "Waste Warrior"},
	})
}

// GetProfileSummary maneja GET /api/profile.
func (h *ContentHandler) GetProfileSummary(c *gin.Context) {
	c.JSON(http.StatusOK, domain.ProfileSummary{
		EcoGoals:    []string{"Reduce plastic use by 30%", "Plant 10 trees", "Use public transport daily"},
		ImpactScore: 285,
	})
}

// Health maneja GET /api/health. No requiere token.
func (h *ContentHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
