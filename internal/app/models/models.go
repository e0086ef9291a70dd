package models

// Level defines the school level of a grade
type Level string

const (
	LevelPrimaria   Level = "primaria"
	LevelSecundaria Level = "secundaria"
	LevelMedia      Level = "media"
)

// PeriodStatus defines the lifecycle state of an academic period
type PeriodStatus string

const (
	PeriodActive  PeriodStatus = "activo"
	PeriodClosed  PeriodStatus = "cerrado"
	PeriodPending PeriodStatus = "pendiente"
)

// Performance band labels used on report cards
const (
	BandSuperior = "SUPERIOR"
	BandAlto     = "ALTO"
	BandBasico   = "BÁSICO"
	BandBajo     = "BAJO"
)

// PerformanceBand maps a grade value to its qualitative band.
// A nil score yields an empty band.
func PerformanceBand(score *float64) string {
	if score == nil {
		return ""
	}
	switch {
	case *score >= 4.5:
		return BandSuperior
	case *score >= 4.0:
		return BandAlto
	case *score >= 3.0:
		return BandBasico
	default:
		return BandBajo
	}
}
