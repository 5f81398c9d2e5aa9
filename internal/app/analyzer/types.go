package analyzer

// Request identifica o site e o contexto comercial da análise
type Request struct {
	URL      string `json:"url"`
	Rubro    string `json:"rubro"`
	Servicio string `json:"servicio"`
	Tipo     string `json:"tipo"`
}

// SectionAnalysis descreve uma seção encontrada, faltante ou recomendada
type SectionAnalysis struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Found           bool     `json:"found"`
	ContentSummary  string   `json:"content_summary,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// WebsiteStructure é o relatório da estratégia de estrutura
type WebsiteStructure struct {
	URL                 string            `json:"url"`
	Title               string            `json:"title"`
	ExistingSections    []SectionAnalysis `json:"existing_sections"`
	MissingSections     []SectionAnalysis `json:"missing_sections"`
	RecommendedSections []SectionAnalysis `json:"recommended_sections"`
	OverallAnalysis     string            `json:"overall_analysis"`
	Score               int               `json:"score"`
}

// Rating implementa Scored
func (w WebsiteStructure) Rating() int { return w.Score }

// SEOAnalysis agrupa os sinais de SEO
type SEOAnalysis struct {
	HasMetaDescription bool     `json:"has_meta_description"`
	HasMetaKeywords    bool     `json:"has_meta_keywords"`
	HasH1Tags          bool     `json:"has_h1_tags"`
	HasAltTexts        bool     `json:"has_alt_texts"`
	PageSpeedIssues    []string `json:"page_speed_issues"`
}

// DesignAnalysis agrupa os sinais de design
type DesignAnalysis struct {
	IsResponsive     bool     `json:"is_responsive"`
	HasModernDesign  bool     `json:"has_modern_design"`
	NavigationIssues []string `json:"navigation_issues"`
	UXIssues         []string `json:"ux_issues"`
}

// ContentAnalysis agrupa os sinais de conteúdo
type ContentAnalysis struct {
	ContentQuality     string   `json:"content_quality"`
	MissingSections    []string `json:"missing_sections"`
	EngagementElements []string `json:"engagement_elements"`
}

// TechnicalAnalysis agrupa os sinais técnicos
type TechnicalAnalysis struct {
	HasSSL          bool `json:"has_ssl"`
	HasContactForms bool `json:"has_contact_forms"`
	HasSocialMedia  bool `json:"has_social_media"`
	HasAnalytics    bool `json:"has_analytics"`
}

// AnalysisResult é o relatório da estratégia heurística
type AnalysisResult struct {
	URL               string            `json:"url"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	MissingFeatures   []string          `json:"missing_features"`
	Recommendations   []string          `json:"recommendations"`
	SEOAnalysis       SEOAnalysis       `json:"seo_analysis"`
	DesignAnalysis    DesignAnalysis    `json:"design_analysis"`
	ContentAnalysis   ContentAnalysis   `json:"content_analysis"`
	TechnicalAnalysis TechnicalAnalysis `json:"technical_analysis"`
	OverallScore      int               `json:"overall_score"`
	DetailedAnalysis  string            `json:"detailed_analysis"`
}

// Rating implementa Scored
func (a AnalysisResult) Rating() int { return a.OverallScore }
