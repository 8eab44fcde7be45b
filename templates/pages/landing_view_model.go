package pages

// NavLink is an in-page anchor in the navbar
type NavLink struct {
	LabelKey string
	Href     string
}

// FooterColumn is one titled list of footer links
type FooterColumn struct {
	TitleKey string
	ItemKeys []string
}

// LandingViewModel holds the data for the landing page
type LandingViewModel struct {
	CSRFToken         string
	RazorpayScriptURL string
	TurnstileSiteKey  string
	Year              int
	Nav               []NavLink
	Logos             []string
	AnalyticsItemKeys []string
	FooterColumns     []FooterColumn
}

// NewLandingViewModel fills the static sections of the page
func NewLandingViewModel(csrfToken, razorpayScriptURL, turnstileSiteKey string, year int) LandingViewModel {
	return LandingViewModel{
		CSRFToken:         csrfToken,
		RazorpayScriptURL: razorpayScriptURL,
		TurnstileSiteKey:  turnstileSiteKey,
		Year:              year,
		Nav: []NavLink{
			{LabelKey: "nav.product", Href: "#product"},
			{LabelKey: "nav.solutions", Href: "#solutions"},
			{LabelKey: "nav.pricing", Href: "#pricing"},
			{LabelKey: "nav.resources", Href: "#resources"},
		},
		Logos: []string{"Deloitte", "NCR", "monday.com", "NETFLIX", "Dropbox"},
		AnalyticsItemKeys: []string{
			"features.analytics.dashboards",
			"features.analytics.export",
			"features.analytics.roi",
		},
		FooterColumns: []FooterColumn{
			{TitleKey: "footer.product.title", ItemKeys: []string{
				"footer.product.whatsapp_api", "footer.product.chatbots",
				"footer.product.email_marketing", "footer.product.crm_sync",
			}},
			{TitleKey: "footer.company.title", ItemKeys: []string{
				"footer.company.about", "footer.company.careers",
				"footer.company.blog", "footer.company.contact",
			}},
			{TitleKey: "footer.legal.title", ItemKeys: []string{
				"footer.legal.privacy", "footer.legal.terms", "footer.legal.cookies",
			}},
		},
	}
}
