// Package compliance holds the checklist rule engine: the static requirement
// catalog, the evaluator that maps a business profile onto it, and the tracker
// that owns per-business item status.
package compliance

import (
	"strings"

	"github.com/bizease/bizease-backend/internal/models"
)

// EntryID is the stable identifier of a catalog entry. Generated checklist
// items carry it as CatalogID.
type EntryID string

const (
	EntryPAN                  EntryID = "pan-card"
	EntryAadhaar              EntryID = "aadhaar-card"
	EntryCompanyIncorporation EntryID = "company-incorporation"
	EntryLLPRegistration      EntryID = "llp-registration"
	EntryGST                  EntryID = "gst-registration"
	EntryFSSAI                EntryID = "fssai-license"
	EntryFactoryLicense       EntryID = "factory-license"
	EntryPollutionClearance   EntryID = "pollution-clearance"
	EntryMedicalCouncil       EntryID = "medical-council-registration"
	EntryEducationApproval    EntryID = "education-department-approval"
	EntryTradeLicense         EntryID = "trade-license"
	EntryShopEstablishment    EntryID = "shop-establishment-license"
	EntryFireSafety           EntryID = "fire-safety-certificate"
	EntryDigitalSignature     EntryID = "digital-signature-certificate"
	EntryUdyam                EntryID = "udyam-registration"
	EntryStartupIndia         EntryID = "startup-india-registration"
	EntryCurrentAccount       EntryID = "current-bank-account"
	EntryComplianceAudit      EntryID = "compliance-audit"
	EntryTaxStructureReview   EntryID = "tax-structure-review"
)

// Kind names the predicate family that decides whether an entry applies.
type Kind string

const (
	KindBase       Kind = "base"
	KindStructure  Kind = "structure"
	KindTax        Kind = "tax"
	KindIndustry   Kind = "industry"
	KindLocation   Kind = "location"
	KindPlan       Kind = "plan"
	KindScheme     Kind = "scheme"
	KindExperience Kind = "experience"
)

// NoPortal prefixes the portal field of entries handled by private providers.
const NoPortal = "N/A"

// Entry is one possible compliance requirement.
type Entry struct {
	ID              EntryID         `json:"id"`
	Kind            Kind            `json:"kind"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	EstimatedTime   string          `json:"estimated_time"`
	Priority        models.Priority `json:"priority"`
	Required        bool            `json:"is_required"`
	CostEstimate    string          `json:"cost_estimate"`
	Portal          string          `json:"government_portal"`
	DocumentsNeeded []string        `json:"documents_needed"`
	WhyNeeded       string          `json:"why_needed"`
}

// HasPortal is false for entries served by banks or professional firms.
func (e Entry) HasPortal() bool {
	return !strings.HasPrefix(e.Portal, NoPortal)
}

var catalog = []Entry{
	{
		ID:              EntryPAN,
		Kind:            KindBase,
		Title:           "PAN Card",
		Description:     "Permanent Account Number for tax identification and business operations",
		Category:        "Basic Documents",
		EstimatedTime:   "1-2 days",
		Priority:        models.PriorityHigh,
		Required:        true,
		CostEstimate:    "₹110",
		Portal:          "https://www.incometax.gov.in/iec/foportal/",
		DocumentsNeeded: []string{"Identity Proof", "Address Proof", "Photograph"},
		WhyNeeded:       "Mandatory for all business transactions and tax compliance",
	},
	{
		ID:              EntryAadhaar,
		Kind:            KindBase,
		Title:           "Aadhaar Card",
		Description:     "Unique identification document for business owner",
		Category:        "Basic Documents",
		EstimatedTime:   "Immediate (if available)",
		Priority:        models.PriorityHigh,
		Required:        true,
		CostEstimate:    "Free",
		Portal:          "https://uidai.gov.in/",
		DocumentsNeeded: []string{"Biometric verification"},
		WhyNeeded:       "Required for most government registrations and KYC processes",
	},
	{
		ID:              EntryCompanyIncorporation,
		Kind:            KindStructure,
		Title:           "Company Incorporation",
		Description:     "Register your company with Ministry of Corporate Affairs",
		Category:        "Business Registration",
		EstimatedTime:   "10-15 days",
		Priority:        models.PriorityHigh,
		Required:        true,
		CostEstimate:    "₹4,000-₹10,000",
		Portal:          "https://www.mca.gov.in/",
		DocumentsNeeded: []string{"DIN", "DSC", "MOA", "AOA"},
		WhyNeeded:       "Legal entity formation for limited companies",
	},
	{
		ID:              EntryLLPRegistration,
		Kind:            KindStructure,
		Title:           "LLP Registration",
		Description:     "Register Limited Liability Partnership",
		Category:        "Business Registration",
		EstimatedTime:   "7-10 days",
		Priority:        models.PriorityHigh,
		Required:        true,
		CostEstimate:    "₹2,000-₹5,000",
		Portal:          "https://www.mca.gov.in/",
		DocumentsNeeded: []string{"DIN", "DSC", "LLP Agreement"},
		WhyNeeded:       "Legal formation for LLP structure",
	},
	{
		ID:              EntryGST,
		Kind:            KindTax,
		Title:           "GST Registration",
		Description:     "Goods and Services Tax registration for tax compliance",
		Category:        "Tax Registration",
		EstimatedTime:   "3-7 days",
		Priority:        models.PriorityHigh,
		Required:        true,
		CostEstimate:    "Free",
		Portal:          "https://www.gst.gov.in/",
		DocumentsNeeded: []string{"PAN Card", "Aadhaar Card", "Business Address Proof"},
		WhyNeeded:       "Mandatory for businesses with turnover above ₹40 lakhs or certain business types",
	},
	{
		ID:              EntryFSSAI,
		Kind:            KindIndustry,
		Title:           "FSSAI License",
		Description:     "Food Safety and Standards Authority of India license",
		Category:        "Industry License",
		EstimatedTime:   "15-30 days",
		Priority:        models.PriorityHigh,
		Required:        true,
		CostEstimate:    "₹100-₹7,500",
		Portal:          "https://www.fssai.gov.in/",
		DocumentsNeeded: []string{"Business Registration", "Layout Plan", "Water Test Report"},
		WhyNeeded:       "Mandatory for all food businesses in India",
	},
	{
		ID:              EntryFactoryLicense,
		Kind:            KindIndustry,
		Title:           "Factory License",
		Description:     "License to operate manufacturing facility",
		Category:        "Industry License",
		EstimatedTime:   "30-45 days",
		Priority:        models.PriorityHigh,
		Required:        true,
		CostEstimate:    "₹2,000-₹10,000",
		Portal:          "https://labour.gov.in/",
		DocumentsNeeded: []string{"Factory Plan", "Power Connection", "Water Connection"},
		WhyNeeded:       "Required for manufacturing operations under Factories Act",
	},
	{
		ID:              EntryPollutionClearance,
		Kind:            KindIndustry,
		Title:           "Pollution Clearance Certificate",
		Description:     "Environmental clearance for manufacturing operations",
		Category:        "Environmental Compliance",
		EstimatedTime:   "45-60 days",
		Priority:        models.PriorityHigh,
		Required:        true,
		CostEstimate:    "₹10,000-₹50,000",
		Portal:          "https://parivesh.nic.in/",
		DocumentsNeeded: []string{"Project Report", "Site Plan", "Environmental Impact Assessment"},
		WhyNeeded:       "Mandatory for manufacturing units to prevent environmental pollution",
	},
	{
		ID:              EntryMedicalCouncil,
		Kind:            KindIndustry,
		Title:           "Medical Council Registration",
		Description:     "Registration with respective medical council",
		Category:        "Professional License",
		EstimatedTime:   "30-60 days",
		Priority:        models.PriorityHigh,
		Required:        true,
		CostEstimate:    "₹5,000-₹15,000",
		Portal:          "https://www.nmc.org.in/",
		DocumentsNeeded: []string{"Medical Degree", "Experience Certificate", "Character Certificate"},
		WhyNeeded:       "Mandatory for healthcare practitioners and facilities",
	},
	{
		ID:              EntryEducationApproval,
		Kind:            KindIndustry,
		Title:           "Education Department Approval",
		Description:     "Approval from state education department",
		Category:        "Educational License",
		EstimatedTime:   "60-90 days",
		Priority:        models.PriorityHigh,
		Required:        true,
		CostEstimate:    "₹10,000-₹25,000",
		Portal:          "https://www.education.gov.in/",
		DocumentsNeeded: []string{"Infrastructure Details", "Faculty Qualifications", "Curriculum"},
		WhyNeeded:       "Required for educational institutions and training centers",
	},
	{
		ID:              EntryTradeLicense,
		Kind:            KindLocation,
		Title:           "Trade License",
		Description:     "Municipal trade license for physical business operations",
		Category:        "Local License",
		EstimatedTime:   "7-15 days",
		Priority:        models.PriorityHigh,
		Required:        true,
		CostEstimate:    "₹500-₹2,000",
		Portal:          "https://www.delhi.gov.in/",
		DocumentsNeeded: []string{"Property Documents", "NOC from Owner", "Identity Proof"},
		WhyNeeded:       "Required for operating physical business premises",
	},
	{
		ID:              EntryShopEstablishment,
		Kind:            KindLocation,
		Title:           "Shop & Establishment License",
		Description:     "Registration under Shops and Establishments Act",
		Category:        "Local License",
		EstimatedTime:   "7-10 days",
		Priority:        models.PriorityHigh,
		Required:        true,
		CostEstimate:    "₹200-₹1,000",
		Portal:          "https://www.delhi.gov.in/",
		DocumentsNeeded: []string{"Rent Agreement", "Identity Proof", "Passport Size Photos"},
		WhyNeeded:       "Mandatory for all commercial establishments with employees",
	},
	{
		ID:              EntryFireSafety,
		Kind:            KindLocation,
		Title:           "Fire Safety Certificate",
		Description:     "Fire department clearance for business premises",
		Category:        "Safety Compliance",
		EstimatedTime:   "15-30 days",
		Priority:        models.PriorityMedium,
		Required:        true,
		CostEstimate:    "₹1,000-₹5,000",
		Portal:          "https://dfs.delhi.gov.in/",
		DocumentsNeeded: []string{"Building Plan", "Fire Safety Measures", "NOC"},
		WhyNeeded:       "Required for commercial premises with employees for safety compliance",
	},
	{
		ID:              EntryDigitalSignature,
		Kind:            KindPlan,
		Title:           "Digital Signature Certificate",
		Description:     "DSC for online business transactions and filings",
		Category:        "Digital Infrastructure",
		EstimatedTime:   "1-3 days",
		Priority:        models.PriorityMedium,
		Required:        false,
		CostEstimate:    "₹800-₹2,000",
		Portal:          "https://www.cca.gov.in/",
		DocumentsNeeded: []string{"PAN Card", "Aadhaar Card", "Photograph"},
		WhyNeeded:       "Required for digital transactions and online government filings",
	},
	{
		ID:              EntryUdyam,
		Kind:            KindScheme,
		Title:           "Udyam Registration (MSME)",
		Description:     "Micro, Small and Medium Enterprises registration",
		Category:        "Government Schemes",
		EstimatedTime:   "1-2 days",
		Priority:        models.PriorityMedium,
		Required:        false,
		CostEstimate:    "Free",
		Portal:          "https://udyamregistration.gov.in/",
		DocumentsNeeded: []string{"Aadhaar Card", "PAN Card", "Business Details"},
		WhyNeeded:       "Access to government schemes, subsidies, and easier loan approvals",
	},
	{
		ID:              EntryStartupIndia,
		Kind:            KindExperience,
		Title:           "Startup India Registration",
		Description:     "Register under Startup India initiative for tax benefits",
		Category:        "Government Schemes",
		EstimatedTime:   "7-15 days",
		Priority:        models.PriorityMedium,
		Required:        false,
		CostEstimate:    "Free",
		Portal:          "https://www.startupindia.gov.in/",
		DocumentsNeeded: []string{"Incorporation Certificate", "Business Plan", "Funding Details"},
		WhyNeeded:       "Tax exemptions and government support for eligible startups",
	},
	{
		ID:              EntryCurrentAccount,
		Kind:            KindExperience,
		Title:           "Current Bank Account",
		Description:     "Open business current account for financial transactions",
		Category:        "Banking",
		EstimatedTime:   "3-7 days",
		Priority:        models.PriorityHigh,
		Required:        true,
		CostEstimate:    "₹500-₹2,000 (monthly charges)",
		Portal:          "N/A (Private Banks)",
		DocumentsNeeded: []string{"Business Registration", "PAN Card", "Address Proof"},
		WhyNeeded:       "Separate business finances and professional banking services",
	},
	{
		ID:              EntryComplianceAudit,
		Kind:            KindExperience,
		Title:           "Compliance Audit",
		Description:     "Professional audit of current compliance status",
		Category:        "Professional Services",
		EstimatedTime:   "7-14 days",
		Priority:        models.PriorityHigh,
		Required:        false,
		CostEstimate:    "₹10,000-₹25,000",
		Portal:          "N/A (Professional Services)",
		DocumentsNeeded: []string{"All Business Documents", "Financial Records"},
		WhyNeeded:       "Identify and resolve compliance gaps to avoid penalties",
	},
	{
		ID:              EntryTaxStructureReview,
		Kind:            KindExperience,
		Title:           "Tax Structure Review",
		Description:     "Review and optimize current tax structure",
		Category:        "Professional Services",
		EstimatedTime:   "10-15 days",
		Priority:        models.PriorityMedium,
		Required:        false,
		CostEstimate:    "₹15,000-₹30,000",
		Portal:          "N/A (Professional Services)",
		DocumentsNeeded: []string{"Tax Returns", "Financial Statements", "Business Structure"},
		WhyNeeded:       "Optimize tax liability and improve financial efficiency",
	},
}

var catalogIndex = func() map[EntryID]int {
	idx := make(map[EntryID]int, len(catalog))
	for i, e := range catalog {
		idx[e.ID] = i
	}
	return idx
}()

// AllEntries returns a copy of the catalog in rule order.
func AllEntries() []Entry {
	out := make([]Entry, len(catalog))
	for i, e := range catalog {
		out[i] = e.clone()
	}
	return out
}

func Lookup(id EntryID) (Entry, bool) {
	i, ok := catalogIndex[id]
	if !ok {
		return Entry{}, false
	}
	return catalog[i].clone(), true
}

func (e Entry) clone() Entry {
	e.DocumentsNeeded = append([]string(nil), e.DocumentsNeeded...)
	return e
}
