package compliance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizease/bizease-backend/internal/models"
)

func ids(reqs []Requirement) []EntryID {
	out := make([]EntryID, len(reqs))
	for i, r := range reqs {
		out[i] = r.ID
	}
	return out
}

func find(reqs []Requirement, id EntryID) (Requirement, bool) {
	for _, r := range reqs {
		if r.ID == id {
			return r, true
		}
	}
	return Requirement{}, false
}

func TestEvaluatePrivateLimitedFoodStore(t *testing.T) {
	profile := models.BusinessProfile{
		Structure:        models.StructurePrivateLimited,
		Industry:         models.IndustryFoodBeverage,
		HasPhysicalStore: true,
	}

	got := ids(Evaluate(profile))

	assert.Equal(t, []EntryID{
		EntryPAN,
		EntryAadhaar,
		EntryCompanyIncorporation,
		EntryGST,
		EntryFSSAI,
		EntryTradeLicense,
		EntryShopEstablishment,
		EntryFireSafety,
	}, got)
}

func TestEvaluateSoleProprietorHoldingPANAndGST(t *testing.T) {
	profile := models.BusinessProfile{
		Structure:             models.StructureSoleProprietorship,
		Industry:              models.IndustryOther,
		Turnover:              models.TurnoverBelow25Lakhs,
		Size:                  models.SizeMicro,
		ExistingRegistrations: []string{models.RegistrationPAN, models.RegistrationGST},
	}

	got := ids(Evaluate(profile))

	assert.NotContains(t, got, EntryPAN)
	assert.NotContains(t, got, EntryGST)
	assert.Contains(t, got, EntryAadhaar)
	assert.Contains(t, got, EntryUdyam)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	profile := models.BusinessProfile{
		Structure:          models.StructureLLP,
		Industry:           models.IndustryManufacturing,
		Size:               models.SizeSmall,
		EmployeeCount:      "11-50",
		HasPhysicalStore:   true,
		OnlineBusinessPlan: true,
		Experience:         models.ExperienceNew,
		PriorityAreas:      []string{models.PriorityAreaFunding, models.PriorityAreaTaxBenefits},
	}

	first := DeriveChecklist(uuid.New(), profile)
	second := DeriveChecklist(uuid.New(), profile)

	assert.Equal(t, catalogIDs(first), catalogIDs(second))
	assert.NotEqual(t, first[0].ID, second[0].ID)
}

func TestEvaluateGSTGuard(t *testing.T) {
	tests := []struct {
		name        string
		profile     models.BusinessProfile
		wantGST     bool
		wantRequire bool
	}{
		{
			name:    "sole proprietor holding gst",
			profile: models.BusinessProfile{Structure: models.StructureSoleProprietorship, Industry: models.IndustryRetail, ExistingRegistrations: []string{"gst"}},
			wantGST: false,
		},
		{
			name:        "sole proprietor without gst is offered optional item",
			profile:     models.BusinessProfile{Structure: models.StructureSoleProprietorship, Industry: models.IndustryRetail},
			wantGST:     true,
			wantRequire: false,
		},
		{
			name:        "high turnover forces gst even when held",
			profile:     models.BusinessProfile{Structure: models.StructureSoleProprietorship, Industry: models.IndustryRetail, Turnover: models.TurnoverAbove10Crore, ExistingRegistrations: []string{"gst"}},
			wantGST:     true,
			wantRequire: true,
		},
		{
			name:        "medium size forces gst",
			profile:     models.BusinessProfile{Structure: models.StructureSoleProprietorship, Industry: models.IndustryRetail, Size: models.SizeMedium},
			wantGST:     true,
			wantRequire: true,
		},
		{
			name:        "partnership requires gst",
			profile:     models.BusinessProfile{Structure: models.StructurePartnership, Industry: models.IndustryServices},
			wantGST:     true,
			wantRequire: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gst, ok := find(Evaluate(tt.profile), EntryGST)
			assert.Equal(t, tt.wantGST, ok)
			if ok {
				assert.Equal(t, tt.wantRequire, gst.Required)
			}
		})
	}
}

func TestEvaluateIndustryRules(t *testing.T) {
	tests := []struct {
		industry string
		held     []string
		want     []EntryID
		absent   []EntryID
	}{
		{industry: models.IndustryFoodBeverage, want: []EntryID{EntryFSSAI}},
		{industry: models.IndustryFoodBeverage, held: []string{"fssai"}, absent: []EntryID{EntryFSSAI}},
		{industry: models.IndustryManufacturing, want: []EntryID{EntryFactoryLicense, EntryPollutionClearance}},
		{industry: models.IndustryManufacturing, held: []string{"pollution-clearance"}, want: []EntryID{EntryFactoryLicense}, absent: []EntryID{EntryPollutionClearance}},
		{industry: models.IndustryHealthcare, want: []EntryID{EntryMedicalCouncil}},
		{industry: models.IndustryEducation, want: []EntryID{EntryEducationApproval}},
		{industry: models.IndustryTechnology, absent: []EntryID{EntryFSSAI, EntryFactoryLicense, EntryMedicalCouncil, EntryEducationApproval}},
	}

	for _, tt := range tests {
		t.Run(tt.industry, func(t *testing.T) {
			got := ids(Evaluate(models.BusinessProfile{
				Structure:             models.StructurePartnership,
				Industry:              tt.industry,
				ExistingRegistrations: tt.held,
			}))
			for _, id := range tt.want {
				assert.Contains(t, got, id)
			}
			for _, id := range tt.absent {
				assert.NotContains(t, got, id)
			}
		})
	}
}

func TestEvaluateFireSafetyRequiredByHeadcount(t *testing.T) {
	base := models.BusinessProfile{Structure: models.StructureOPC, Industry: models.IndustryRetail, HasPhysicalStore: true}

	solo := base
	solo.EmployeeCount = "1"
	fire, ok := find(Evaluate(solo), EntryFireSafety)
	require.True(t, ok)
	assert.False(t, fire.Required)

	team := base
	team.EmployeeCount = "6-10"
	fire, ok = find(Evaluate(team), EntryFireSafety)
	require.True(t, ok)
	assert.True(t, fire.Required)

	held := team
	held.ExistingRegistrations = []string{"trade-license", "shop-establishment", "fire-safety"}
	got := ids(Evaluate(held))
	assert.NotContains(t, got, EntryTradeLicense)
	assert.NotContains(t, got, EntryShopEstablishment)
	assert.NotContains(t, got, EntryFireSafety)
}

func TestEvaluateOnlineAndScheme(t *testing.T) {
	got := Evaluate(models.BusinessProfile{
		Structure:          models.StructureOPC,
		Industry:           models.IndustryTechnology,
		Size:               models.SizeSmall,
		OnlineBusinessPlan: true,
	})

	dsc, ok := find(got, EntryDigitalSignature)
	require.True(t, ok)
	assert.False(t, dsc.Required)

	udyam, ok := find(got, EntryUdyam)
	require.True(t, ok)
	assert.False(t, udyam.Required)

	medium := ids(Evaluate(models.BusinessProfile{Structure: models.StructureOPC, Industry: models.IndustryTechnology, Size: models.SizeMedium}))
	assert.NotContains(t, medium, EntryUdyam)

	held := ids(Evaluate(models.BusinessProfile{Structure: models.StructureOPC, Industry: models.IndustryTechnology, Size: models.SizeMicro, ExistingRegistrations: []string{"udyam"}}))
	assert.NotContains(t, held, EntryUdyam)
}

func TestEvaluateExperienceBranches(t *testing.T) {
	newBiz := Evaluate(models.BusinessProfile{
		Structure:     models.StructureOPC,
		Industry:      models.IndustryServices,
		Experience:    models.ExperienceNew,
		PriorityAreas: []string{"tax-benefits", "funding"},
		// challenges are ignored for new businesses
		CurrentChallenges: []string{"compliance-issues"},
	})
	newIDs := ids(newBiz)
	assert.Contains(t, newIDs, EntryStartupIndia)
	assert.Contains(t, newIDs, EntryCurrentAccount)
	assert.NotContains(t, newIDs, EntryComplianceAudit)

	bank, _ := find(newBiz, EntryCurrentAccount)
	assert.True(t, bank.Required)

	experienced := ids(Evaluate(models.BusinessProfile{
		Structure:         models.StructureOPC,
		Industry:          models.IndustryServices,
		Experience:        models.ExperienceExperienced,
		PriorityAreas:     []string{"funding"},
		CurrentChallenges: []string{"compliance-issues", "tax-optimization"},
	}))
	assert.Contains(t, experienced, EntryComplianceAudit)
	assert.Contains(t, experienced, EntryTaxStructureReview)
	assert.NotContains(t, experienced, EntryCurrentAccount)
}

func TestEvaluateMinimalProfileAlwaysYieldsIdentityItems(t *testing.T) {
	got := ids(Evaluate(models.BusinessProfile{}))
	assert.Contains(t, got, EntryAadhaar)
	assert.Contains(t, got, EntryPAN)
}

func TestDeriveChecklistFields(t *testing.T) {
	businessID := uuid.New()
	items := DeriveChecklist(businessID, models.BusinessProfile{
		Structure: models.StructureLLP,
		Industry:  models.IndustryEducation,
	})

	require.NotEmpty(t, items)
	for i, it := range items {
		assert.Equal(t, businessID, it.BusinessID)
		assert.Equal(t, i, it.Position)
		assert.Equal(t, models.ChecklistStatusPending, it.Status)
		assert.NotEqual(t, uuid.Nil, it.ID)
		assert.Nil(t, it.CompletedAt)
	}
	assert.Equal(t, string(EntryLLPRegistration), items[2].CatalogID)
	assert.Equal(t, "https://www.mca.gov.in/", items[2].GovernmentPortal)
}

func catalogIDs(items []models.ChecklistItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.CatalogID
	}
	return ids
}
