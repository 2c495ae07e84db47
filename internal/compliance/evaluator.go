package compliance

import (
	"github.com/google/uuid"

	"github.com/bizease/bizease-backend/internal/models"
)

// Requirement is a catalog entry selected for a profile, with the is-required
// flag resolved against that profile.
type Requirement struct {
	Entry
}

// Evaluate applies the rules in fixed order and returns the matching catalog
// entries. It has no side effects and is safe for concurrent use.
//
// Rules:
//  1. PAN unless held, Aadhaar always.
//  2. Company incorporation for private/public limited, LLP registration for llp.
//  3. GST unless it is held and not mandatory for the profile.
//  4. Industry licenses for food-beverage, manufacturing, healthcare, education.
//  5. Trade, shop and fire-safety licenses for a physical store, unless held.
//  6. Digital signature for an online plan.
//  7. Udyam for micro and small businesses, unless held.
//  8. Priority-area items for new businesses, challenge items for experienced ones.
func Evaluate(profile models.BusinessProfile) []Requirement {
	p := profile.Normalize()
	var out []Requirement
	add := func(id EntryID) *Requirement {
		e, _ := Lookup(id)
		out = append(out, Requirement{Entry: e})
		return &out[len(out)-1]
	}

	// identity documents
	if !p.Holds(models.RegistrationPAN) {
		add(EntryPAN)
	}
	add(EntryAadhaar)

	// entity formation
	switch p.Structure {
	case models.StructurePrivateLimited, models.StructurePublicLimited:
		add(EntryCompanyIncorporation)
	case models.StructureLLP:
		add(EntryLLPRegistration)
	}

	// tax registration
	gstRequired := p.RequiresGST()
	if !p.Holds(models.RegistrationGST) || gstRequired {
		add(EntryGST).Required = gstRequired
	}

	// industry
	switch p.Industry {
	case models.IndustryFoodBeverage:
		if !p.Holds(models.RegistrationFSSAI) {
			add(EntryFSSAI)
		}
	case models.IndustryManufacturing:
		add(EntryFactoryLicense)
		if !p.Holds(models.RegistrationPollutionClearance) {
			add(EntryPollutionClearance)
		}
	case models.IndustryHealthcare:
		add(EntryMedicalCouncil)
	case models.IndustryEducation:
		add(EntryEducationApproval)
	}

	// physical presence
	if p.HasPhysicalStore {
		if !p.Holds(models.RegistrationTradeLicense) {
			add(EntryTradeLicense)
		}
		if !p.Holds(models.RegistrationShopEstablishment) {
			add(EntryShopEstablishment)
		}
		if !p.Holds(models.RegistrationFireSafety) {
			add(EntryFireSafety).Required = p.EmployeeCount != "1"
		}
	}

	if p.OnlineBusinessPlan {
		add(EntryDigitalSignature)
	}

	if (p.Size == models.SizeMicro || p.Size == models.SizeSmall) && !p.Holds(models.RegistrationUdyam) {
		add(EntryUdyam)
	}

	switch {
	case p.IsNew():
		if p.HasPriority(models.PriorityAreaTaxBenefits) {
			add(EntryStartupIndia)
		}
		if p.HasPriority(models.PriorityAreaFunding) {
			add(EntryCurrentAccount)
		}
	case p.IsExperienced():
		if p.HasChallenge(models.ChallengeComplianceIssues) {
			add(EntryComplianceAudit)
		}
		if p.HasChallenge(models.ChallengeTaxOptimization) {
			add(EntryTaxStructureReview)
		}
	}

	return out
}

// DeriveChecklist instantiates Evaluate's result as pending checklist items
// owned by businessID. Item ids are fresh on every call; catalog ids and
// positions are stable for a given profile.
func DeriveChecklist(businessID uuid.UUID, profile models.BusinessProfile) []models.ChecklistItem {
	reqs := Evaluate(profile)
	items := make([]models.ChecklistItem, 0, len(reqs))
	for i, r := range reqs {
		items = append(items, models.ChecklistItem{
			ID:               uuid.New(),
			BusinessID:       businessID,
			CatalogID:        string(r.ID),
			Position:         i,
			Title:            r.Title,
			Description:      r.Description,
			Category:         r.Category,
			EstimatedTime:    r.EstimatedTime,
			CostEstimate:     r.CostEstimate,
			GovernmentPortal: r.Portal,
			DocumentsNeeded:  r.DocumentsNeeded,
			WhyNeeded:        r.WhyNeeded,
			Priority:         r.Priority,
			IsRequired:       r.Required,
			Status:           models.ChecklistStatusPending,
		})
	}
	return items
}
