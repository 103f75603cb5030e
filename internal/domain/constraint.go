package domain

// ConstraintKind discriminates the tagged variants of OptimizationConstraint.
// Spec §9 requires the source's dynamic "any" constraint values to be
// re-architected into statically typed variants.
type ConstraintKind string

const (
	ConstraintMaxWeight     ConstraintKind = "MAX_WEIGHT"
	ConstraintMinHours      ConstraintKind = "MIN_HOURS"
	ConstraintEquipmentType ConstraintKind = "EQUIPMENT_TYPE"
	ConstraintRegion        ConstraintKind = "REGION"
)

// OptimizationConstraint is one tagged constraint applied to a job. Value
// holds the kind-specific payload (weight lbs, minutes, equipment tag, or
// region name, depending on Kind); Weight is a soft-preference multiplier
// consumed by the objective function rather than a hard filter, when the
// constraint is marked soft.
type OptimizationConstraint struct {
	Kind   ConstraintKind
	Value  string
	Weight float64
	Hard   bool
}
