package handler

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"CustomerChurnPrediction/internal/advice"
	"CustomerChurnPrediction/internal/metrics"
	"CustomerChurnPrediction/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded HTML templates for gin's SetHTMLTemplate.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// formPage is the data rendered by index.html.
type formPage struct {
	Profile         models.CustomerProfile
	Result          *PredictResponse
	Error           string
	Aligned         bool
	GenderOptions   []models.Gender
	YesNoOptions    []models.YesNo
	ContractOptions []models.Contract
	InternetOptions []models.InternetService
	MinTenure       int
	MaxTenure       int
	MinSatisfaction int
	MaxSatisfaction int
	ModelInputs     []string
	Insight         advice.Insight
}

func (h *Handler) page(p models.CustomerProfile) formPage {
	return formPage{
		Profile:         p,
		Aligned:         h.predictor.Aligned(),
		GenderOptions:   models.GenderOptions,
		YesNoOptions:    models.YesNoOptions,
		ContractOptions: models.ContractOptions,
		InternetOptions: models.InternetOptions,
		MinTenure:       models.MinTenureMonths,
		MaxTenure:       models.MaxTenureMonths,
		MinSatisfaction: models.MinSatisfaction,
		MaxSatisfaction: models.MaxSatisfaction,
		ModelInputs:     advice.ModelInputs,
		Insight:         advice.BusinessInsight(),
	}
}

// Index renders the empty form with default values.
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.page(models.DefaultProfile()))
}

// SubmitForm scores the submitted form and renders the page again with the result.
func (h *Handler) SubmitForm(c *gin.Context) {
	var profile models.CustomerProfile
	if err := c.ShouldBind(&profile); err != nil {
		h.metrics.ObserveFailure(ChannelForm, metrics.OutcomeMalformed)
		page := h.page(models.DefaultProfile())
		page.Error = "the form could not be read"
		c.HTML(http.StatusBadRequest, "index.html", page)
		return
	}

	page := h.page(profile)
	resp, err := h.predict(c.Request.Context(), ChannelForm, profile)
	if err != nil {
		status, body := describeError(err)
		_ = c.Error(err)
		page.Error = body.Error
		c.HTML(status, "index.html", page)
		return
	}
	page.Result = &resp
	c.HTML(http.StatusOK, "index.html", page)
}
