// internal/models/profile.go
package models

// Legal structures accepted by the questionnaire.
const (
	StructureSoleProprietorship = "sole-proprietorship"
	StructurePartnership        = "partnership"
	StructureLLP                = "llp"
	StructurePrivateLimited     = "private-limited"
	StructurePublicLimited      = "public-limited"
	StructureOPC                = "opc"
)

// Industries accepted by the questionnaire.
const (
	IndustryTechnology    = "technology"
	IndustryRetail        = "retail"
	IndustryFoodBeverage  = "food-beverage"
	IndustryManufacturing = "manufacturing"
	IndustryServices      = "services"
	IndustryHealthcare    = "healthcare"
	IndustryEducation     = "education"
	IndustryFinance       = "finance"
	IndustryRealEstate    = "real-estate"
	IndustryOther         = "other"
)

const (
	SizeMicro  = "micro"
	SizeSmall  = "small"
	SizeMedium = "medium"
)

const (
	ExperienceNew         = "new"
	ExperienceExperienced = "experienced"
)

const (
	TurnoverBelow25Lakhs = "below-25-lakhs"
	Turnover25LakhsTo1Cr = "25-lakhs-1-crore"
	Turnover1To5Crore    = "1-5-crore"
	Turnover5To10Crore   = "5-10-crore"
	TurnoverAbove10Crore = "above-10-crore"
)

// Registration ids that a business may already hold.
const (
	RegistrationPAN                = "pan"
	RegistrationGST                = "gst"
	RegistrationUdyam              = "udyam"
	RegistrationTradeLicense       = "trade-license"
	RegistrationShopEstablishment  = "shop-establishment"
	RegistrationFSSAI              = "fssai"
	RegistrationPollutionClearance = "pollution-clearance"
	RegistrationFireSafety         = "fire-safety"
)

const (
	PriorityAreaTaxBenefits = "tax-benefits"
	PriorityAreaFunding     = "funding"

	ChallengeComplianceIssues = "compliance-issues"
	ChallengeTaxOptimization  = "tax-optimization"
)

var (
	Structures = []string{
		StructureSoleProprietorship, StructurePartnership, StructureLLP,
		StructurePrivateLimited, StructurePublicLimited, StructureOPC,
	}
	Industries = []string{
		IndustryTechnology, IndustryRetail, IndustryFoodBeverage, IndustryManufacturing, IndustryServices,
		IndustryHealthcare, IndustryEducation, IndustryFinance, IndustryRealEstate, IndustryOther,
	}
	Sizes         = []string{SizeMicro, SizeSmall, SizeMedium}
	Turnovers     = []string{TurnoverBelow25Lakhs, Turnover25LakhsTo1Cr, Turnover1To5Crore, Turnover5To10Crore, TurnoverAbove10Crore}
	Registrations = []string{
		RegistrationPAN, RegistrationGST, RegistrationUdyam, RegistrationTradeLicense,
		RegistrationShopEstablishment, RegistrationFSSAI, RegistrationPollutionClearance, RegistrationFireSafety,
	}
)

// BusinessProfile is the questionnaire snapshot the rule evaluator consumes.
// A resubmission replaces the whole value; fields are never patched.
type BusinessProfile struct {
	Structure             string   `json:"structure" validate:"required,business_structure"`
	Industry              string   `json:"industry" validate:"required,industry"`
	Location              string   `json:"location,omitempty"`
	Size                  string   `json:"size,omitempty" validate:"omitempty,business_size"`
	Turnover              string   `json:"turnover,omitempty" validate:"omitempty,turnover"`
	EmployeeCount         string   `json:"employee_count,omitempty"`
	HasPhysicalStore      bool     `json:"has_physical_store"`
	OnlineBusinessPlan    bool     `json:"online_business_plan"`
	Experience            string   `json:"experience,omitempty" validate:"omitempty,oneof=new experienced"`
	ExistingRegistrations []string `json:"existing_registrations" validate:"dive,registration"`
	PriorityAreas         []string `json:"priority_areas"`
	CurrentChallenges     []string `json:"current_challenges"`
	PlannedOperations     string   `json:"planned_operations,omitempty"`
	ExistingTurnover      string   `json:"existing_turnover,omitempty"`
}

// Normalize replaces absent collections with empty ones.
func (p BusinessProfile) Normalize() BusinessProfile {
	if p.ExistingRegistrations == nil {
		p.ExistingRegistrations = []string{}
	}
	if p.PriorityAreas == nil {
		p.PriorityAreas = []string{}
	}
	if p.CurrentChallenges == nil {
		p.CurrentChallenges = []string{}
	}
	return p
}

func (p BusinessProfile) Holds(registration string) bool {
	return contains(p.ExistingRegistrations, registration)
}

func (p BusinessProfile) HasPriority(area string) bool {
	return contains(p.PriorityAreas, area)
}

func (p BusinessProfile) HasChallenge(challenge string) bool {
	return contains(p.CurrentChallenges, challenge)
}

func (p BusinessProfile) IsNew() bool {
	return p.Experience == ExperienceNew
}

func (p BusinessProfile) IsExperienced() bool {
	return p.Experience == ExperienceExperienced
}

// RequiresGST reports whether GST registration is mandatory for this profile.
func (p BusinessProfile) RequiresGST() bool {
	return p.Structure != StructureSoleProprietorship ||
		p.Turnover == Turnover5To10Crore ||
		p.Turnover == TurnoverAbove10Crore ||
		p.Size == SizeMedium
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
