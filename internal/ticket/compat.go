package ticket

import "homefix/internal/model"

// specializationCategory is the fixed specialization to issue-category
// bijection.
var specializationCategory = map[model.Specialization]model.IssueCategory{
	model.SpecializationElectrician: model.CategoryElectrical,
	model.SpecializationPlumber:     model.CategoryPlumbing,
	model.SpecializationCarpenter:   model.CategoryCarpentry,
	model.SpecializationGeneral:     model.CategoryGeneral,
}

// IsCompatible decides assignment eligibility. GENERAL contractors may
// take any job; every other specialization must match its mapped
// category exactly.
func IsCompatible(category model.IssueCategory, specialization model.Specialization) bool {
	if specialization == model.SpecializationGeneral {
		return true
	}
	return specializationCategory[specialization] == category
}
