package services

import (
	"strings"

	"github.com/bizease/bizease-backend/internal/models"
)

type Scheme struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Priority           string   `json:"priority"`
	Eligibility        []string `json:"eligibility"`
	Benefits           []string `json:"benefits"`
	ApplicationProcess string   `json:"application_process"`
	Timeline           string   `json:"timeline"`
	Amount             string   `json:"amount,omitempty"`
	Link               string   `json:"link"`
	Ministry           string   `json:"ministry"`
	Location           string   `json:"location"`

	sizes      []string
	industries []string
	newOnly    bool
}

// SchemeFilter narrows the scheme list to what a business qualifies for.
// Zero fields match everything.
type SchemeFilter struct {
	Size     string
	Industry string
	IsNew    *bool
	Category string
	Search   string
}

type SchemeService struct {
	schemes []Scheme
}

func NewSchemeService() *SchemeService {
	return &SchemeService{schemes: defaultSchemes}
}

// FilterForProfile derives a filter from a questionnaire snapshot.
func FilterForProfile(p models.BusinessProfile) SchemeFilter {
	f := SchemeFilter{Size: p.Size, Industry: p.Industry}
	if p.Experience != "" {
		isNew := p.IsNew()
		f.IsNew = &isNew
	}
	return f
}

func (s *SchemeService) List(f SchemeFilter) []Scheme {
	out := make([]Scheme, 0, len(s.schemes))
	for _, sc := range s.schemes {
		if sc.matches(f) {
			out = append(out, sc)
		}
	}
	return out
}

func (sc Scheme) matches(f SchemeFilter) bool {
	if f.Category != "" && sc.Category != f.Category {
		return false
	}
	if f.Size != "" && len(sc.sizes) > 0 && !containsString(sc.sizes, f.Size) {
		return false
	}
	if f.Industry != "" && len(sc.industries) > 0 && !containsString(sc.industries, f.Industry) {
		return false
	}
	if sc.newOnly && f.IsNew != nil && !*f.IsNew {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(sc.Title), q) && !strings.Contains(strings.ToLower(sc.Description), q) {
			return false
		}
	}
	return true
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

var defaultSchemes = []Scheme{
	{
		ID:                 "msme-registration",
		Title:              "MSME Registration (Udyam)",
		Description:        "Micro, Small and Medium Enterprises registration for various benefits and subsidies",
		Category:           "msme",
		Priority:           "high",
		Eligibility:        []string{"Investment in plant & machinery up to ₹50 crore", "Annual turnover up to ₹250 crore"},
		Benefits:           []string{"Priority sector lending", "Collateral-free loans up to ₹2 crore", "Government tender preferences"},
		ApplicationProcess: "Online registration through Udyam portal with Aadhaar and business details",
		Timeline:           "Instant registration",
		Link:               "https://udyamregistration.gov.in/",
		Ministry:           "Ministry of MSME",
		Location:           "pan-india",
		sizes:              []string{models.SizeMicro, models.SizeSmall, models.SizeMedium},
	},
	{
		ID:                 "pmegp-scheme",
		Title:              "PMEGP (Prime Minister's Employment Generation Programme)",
		Description:        "Credit-linked subsidy scheme for generating employment opportunities",
		Category:           "subsidy",
		Priority:           "high",
		Eligibility:        []string{"Age 18+ years", "Educational qualification: Class VIII pass", "For existing units: at least 50% new investment"},
		Benefits:           []string{"15-35% subsidy on project cost", "Maximum subsidy ₹15 lakh (manufacturing) / ₹7.5 lakh (service)"},
		ApplicationProcess: "Apply through KVIC/KVIB/DIC with project report and documents",
		Timeline:           "45-60 days",
		Amount:             "Up to ₹15 lakh subsidy",
		Link:               "https://www.kviconline.gov.in/pmegpeportal/",
		Ministry:           "Ministry of MSME",
		Location:           "pan-india",
		sizes:              []string{models.SizeMicro, models.SizeSmall},
	},
	{
		ID:                 "startup-india",
		Title:              "Startup India Scheme",
		Description:        "Government initiative to promote entrepreneurship and innovation",
		Category:           "startup",
		Priority:           "high",
		Eligibility:        []string{"Company incorporated within 10 years", "Annual turnover less than ₹100 crore"},
		Benefits:           []string{"Tax exemptions for 3 consecutive years", "Fast-track patent examination", "Self-certification under 9 labour and environment laws"},
		ApplicationProcess: "Register on Startup India portal with incorporation certificate and business plan",
		Timeline:           "2-4 weeks",
		Link:               "https://www.startupindia.gov.in/",
		Ministry:           "Department for Promotion of Industry and Internal Trade",
		Location:           "pan-india",
		newOnly:            true,
	},
	{
		ID:                 "delhi-startup-policy",
		Title:              "Delhi Startup Policy 2.0",
		Description:        "Delhi government initiative to promote startups and innovation ecosystem",
		Category:           "startup",
		Priority:           "high",
		Eligibility:        []string{"Startups registered in Delhi", "Innovative business model", "Job creation potential"},
		Benefits:           []string{"Seed funding up to ₹20 lakh", "100% reimbursement of patent costs", "Free incubation facilities"},
		ApplicationProcess: "Apply through Delhi Startup portal with business plan and innovation details",
		Timeline:           "30-45 days",
		Amount:             "Up to ₹20 lakh seed funding",
		Link:               "https://startup.delhi.gov.in/",
		Ministry:           "Government of Delhi",
		Location:           "delhi",
		newOnly:            true,
	},
	{
		ID:                 "section-80iac",
		Title:              "Section 80-IAC Tax Deduction",
		Description:        "100% tax deduction for eligible startups for 3 consecutive years",
		Category:           "tax-benefit",
		Priority:           "high",
		Eligibility:        []string{"Startup India registered companies", "Incorporated after 1st April 2016", "Annual turnover less than ₹100 crore"},
		Benefits:           []string{"100% tax deduction for 3 years", "Any 3 consecutive years out of the first 10"},
		ApplicationProcess: "File ITR with startup recognition certificate and choose eligible years",
		Timeline:           "During ITR filing",
		Amount:             "100% tax exemption",
		Link:               "https://www.incometax.gov.in/",
		Ministry:           "Ministry of Finance",
		Location:           "pan-india",
		newOnly:            true,
	},
	{
		ID:                 "section-54gb",
		Title:              "Section 54GB Capital Gains Exemption",
		Description:        "Capital gains tax exemption for investments in eligible startups",
		Category:           "tax-benefit",
		Priority:           "medium",
		Eligibility:        []string{"Individual/HUF with long-term capital gains", "Investment in eligible startup within specified time"},
		Benefits:           []string{"100% capital gains tax exemption", "Investment limit up to ₹50 lakh"},
		ApplicationProcess: "Invest in eligible startup and claim exemption during ITR filing",
		Timeline:           "During ITR filing",
		Amount:             "Up to ₹50 lakh investment",
		Link:               "https://www.incometax.gov.in/",
		Ministry:           "Ministry of Finance",
		Location:           "pan-india",
		newOnly:            true,
	},
	{
		ID:                 "cgtmse-scheme",
		Title:              "CGTMSE (Credit Guarantee Trust for Micro and Small Enterprises)",
		Description:        "Collateral-free loans for micro and small enterprises",
		Category:           "subsidy",
		Priority:           "high",
		Eligibility:        []string{"Micro and Small Enterprises", "Manufacturing: investment up to ₹10 crore", "Service: investment up to ₹5 crore"},
		Benefits:           []string{"Collateral-free loans up to ₹2 crore", "Up to 85% guarantee coverage"},
		ApplicationProcess: "Apply through member lending institutions (banks/NBFCs)",
		Timeline:           "30-45 days",
		Amount:             "Up to ₹2 crore guarantee",
		Link:               "https://www.cgtmse.in/",
		Ministry:           "Ministry of MSME",
		Location:           "pan-india",
		sizes:              []string{models.SizeMicro, models.SizeSmall},
	},
	{
		ID:                 "technology-upgradation",
		Title:              "Technology Upgradation Fund Scheme (TUFS)",
		Description:        "Subsidized credit for technology upgradation in textile industry",
		Category:           "subsidy",
		Priority:           "medium",
		Eligibility:        []string{"Textile and jute industry units", "Technology upgradation projects"},
		Benefits:           []string{"5% interest subvention", "15% capital subsidy for specified machinery"},
		ApplicationProcess: "Apply through implementing agencies with project details",
		Timeline:           "60-90 days",
		Amount:             "5% interest subvention + 15% capital subsidy",
		Link:               "https://www.texmin.nic.in/",
		Ministry:           "Ministry of Textiles",
		Location:           "pan-india",
		industries:         []string{models.IndustryManufacturing},
	},
	{
		ID:                 "iso-certification-support",
		Title:              "ISO Certification Reimbursement Scheme",
		Description:        "Financial assistance for ISO certification to MSMEs",
		Category:           "license",
		Priority:           "medium",
		Eligibility:        []string{"MSME registered units", "First-time ISO certification", "Valid Udyam registration"},
		Benefits:           []string{"75% reimbursement of certification cost", "Maximum reimbursement ₹2 lakh"},
		ApplicationProcess: "Apply through DC-MSME office with certification documents",
		Timeline:           "45-60 days",
		Amount:             "Up to ₹2 lakh reimbursement",
		Link:               "https://msme.gov.in/",
		Ministry:           "Ministry of MSME",
		Location:           "pan-india",
		sizes:              []string{models.SizeMicro, models.SizeSmall, models.SizeMedium},
	},
	{
		ID:                 "delhi-single-window",
		Title:              "Delhi Single Window System",
		Description:        "Unified platform for all business approvals and licenses in Delhi",
		Category:           "license",
		Priority:           "high",
		Eligibility:        []string{"All businesses operating in Delhi", "New registrations", "License renewals"},
		Benefits:           []string{"Single window clearance for 70+ services", "Online application and tracking"},
		ApplicationProcess: "Apply online through Delhi government portal with required documents",
		Timeline:           "15-30 days",
		Link:               "https://delhioss.delhi.gov.in/",
		Ministry:           "Government of Delhi",
		Location:           "delhi",
	},
}
