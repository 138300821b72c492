// Package legislation defines the normalized document model for UK primary
// legislation, statutory instruments, case law, explanatory notes, and
// inter-act amendments, and the closed enumerations that classify them.
package legislation

import "strings"

// Category is the broad classification of a legislative instrument.
type Category string

const (
	CategoryPrimary    Category = "primary"
	CategorySecondary  Category = "secondary"
	CategoryEuropean   Category = "european"
	CategoryRetained   Category = "retained"
	CategoryUnknown    Category = "unknown"
)

// Type is the closed enumeration of legislation.gov.uk document-type tags.
// Each tag has a historical active year range during which instruments of
// that type were enacted; ranges of zero mean "still active".
type Type string

const (
	TypeUKPGA   Type = "ukpga"   // UK Public General Acts
	TypeUKLA    Type = "ukla"    // UK Local Acts
	TypeUKPPA   Type = "ukppa"   // UK Private and Personal Acts
	TypeUKCM    Type = "ukcm"    // UK Church Measures
	TypeUKSI    Type = "uksi"    // UK Statutory Instruments
	TypeUKSSI   Type = "ukssi"   // Scottish Statutory Instruments (pre-devolution UK SI numbering)
	TypeASP     Type = "asp"     // Acts of the Scottish Parliament
	TypeSSI     Type = "ssi"     // Scottish Statutory Instruments
	TypeASC     Type = "asc"     // Acts of Senedd Cymru
	TypeANAW    Type = "anaw"    // Acts of the National Assembly for Wales
	TypeWSI     Type = "wsi"     // Wales Statutory Instruments
	TypeNIA     Type = "nia"     // Acts of the Northern Ireland Assembly
	TypeNISI    Type = "nisi"    // Northern Ireland Orders in Council
	TypeNISR    Type = "nisr"    // Northern Ireland Statutory Rules
	TypeAPNI    Type = "apni"    // Acts of the Parliament of Northern Ireland
	TypeMNIA    Type = "mnia"    // Measures of the Northern Ireland Assembly
	TypeMWA     Type = "mwa"     // Measures of the National Assembly for Wales
	TypeEUR     Type = "eur"     // EU Regulations
	TypeEUDN    Type = "eudn"    // EU Decisions
	TypeEUDR    Type = "eudr"    // EU Directives
	TypeEUT     Type = "eut"     // EU Treaties
	TypeUKCIPO  Type = "ukcipo"  // Church Instruments
	TypeCY      Type = "cy"      // Church Canons
	TypeGBLA    Type = "gbla"    // Great Britain Local Acts
	TypeGBPPA   Type = "gbppa"   // Great Britain Private and Personal Acts
	TypeAEP     Type = "aep"     // Acts of the English Parliament
	TypeAOSP    Type = "aosp"    // Acts of the Old Scottish Parliament
	TypeAIP     Type = "aip"     // Acts of the Irish Parliament
	TypeAPGB    Type = "apgb"    // Acts of the Parliament of Great Britain
)

// yearRange is the [from, to] span a type was historically active, where
// to == 0 means "still active".
type yearRange struct{ from, to int }

var activeYears = map[Type]yearRange{
	TypeUKPGA:  {1801, 0},
	TypeUKLA:   {1797, 1991},
	TypeUKPPA:  {1539, 1987},
	TypeUKCM:   {1920, 0},
	TypeUKSI:   {1948, 0},
	TypeUKSSI:  {1999, 2011},
	TypeASP:    {1999, 0},
	TypeSSI:    {1999, 0},
	TypeASC:    {2020, 0},
	TypeANAW:   {2012, 2020},
	TypeWSI:    {2018, 0},
	TypeNIA:    {1999, 2002},
	TypeNISI:   {1972, 2009},
	TypeNISR:   {1991, 0},
	TypeAPNI:   {1921, 1972},
	TypeMNIA:   {1999, 2002},
	TypeMWA:    {2008, 2011},
	TypeEUR:    {1952, 2020},
	TypeEUDN:   {1952, 2020},
	TypeEUDR:   {1952, 2020},
	TypeEUT:    {1952, 2020},
	TypeUKCIPO: {1991, 0},
	TypeCY:     {1604, 0},
	TypeGBLA:   {1707, 1800},
	TypeGBPPA:  {1707, 1800},
	TypeAEP:    {1235, 1706},
	TypeAOSP:   {1424, 1706},
	TypeAIP:    {1495, 1800},
	TypeAPGB:   {1707, 1800},
}

// ActiveInYear reports whether instruments of type t were historically
// produced in the given year.
func (t Type) ActiveInYear(year int) bool {
	r, ok := activeYears[t]
	if !ok {
		return true
	}
	if year < r.from {
		return false
	}
	return r.to == 0 || year <= r.to
}

// AllTypes lists every document-type tag the authority site publishes,
// the set C8's unified legislation source enumerates across before
// Type.ActiveInYear narrows it per requested year.
func AllTypes() []Type {
	return []Type{
		TypeUKPGA, TypeUKLA, TypeUKPPA, TypeUKCM, TypeUKSI, TypeUKSSI,
		TypeASP, TypeSSI, TypeASC, TypeANAW, TypeWSI, TypeNIA, TypeNISI,
		TypeNISR, TypeAPNI, TypeMNIA, TypeMWA, TypeEUR, TypeEUDN, TypeEUDR,
		TypeEUT, TypeUKCIPO, TypeCY, TypeGBLA, TypeGBPPA, TypeAEP, TypeAOSP,
		TypeAIP, TypeAPGB,
	}
}

// categoryByType is the fixed type→category derivation table.
var categoryByType = map[Type]Category{
	TypeUKPGA: CategoryPrimary, TypeUKLA: CategoryPrimary, TypeUKPPA: CategoryPrimary,
	TypeASP: CategoryPrimary, TypeASC: CategoryPrimary, TypeANAW: CategoryPrimary,
	TypeNIA: CategoryPrimary, TypeAPNI: CategoryPrimary, TypeGBLA: CategoryPrimary,
	TypeGBPPA: CategoryPrimary, TypeAEP: CategoryPrimary, TypeAOSP: CategoryPrimary,
	TypeAIP: CategoryPrimary, TypeAPGB: CategoryPrimary,
	TypeUKSI: CategorySecondary, TypeUKSSI: CategorySecondary, TypeSSI: CategorySecondary,
	TypeWSI: CategorySecondary, TypeNISI: CategorySecondary, TypeNISR: CategorySecondary,
	TypeMNIA: CategorySecondary, TypeMWA: CategorySecondary, TypeUKCM: CategorySecondary,
	TypeUKCIPO: CategorySecondary, TypeCY: CategorySecondary,
	TypeEUR: CategoryEuropean, TypeEUDN: CategoryEuropean, TypeEUDR: CategoryEuropean,
	TypeEUT: CategoryEuropean,
}

// CategoryFor derives the category of a type from the fixed table.
func CategoryFor(t Type) Category {
	if c, ok := categoryByType[t]; ok {
		return c
	}
	return CategoryUnknown
}

// TypesInCategory is the inverse of CategoryFor: every type the fixed
// table assigns to cat, used to expand a category filter into the set of
// type tags a query-time filter actually matches against.
func TypesInCategory(cat Category) []Type {
	var types []Type
	for t, c := range categoryByType {
		if c == cat {
			types = append(types, t)
		}
	}
	return types
}

// Extent is the jurisdictional applicability of a provision.
type Extent string

const (
	ExtentEngland         Extent = "England"
	ExtentWales           Extent = "Wales"
	ExtentScotland        Extent = "Scotland"
	ExtentNorthernIreland Extent = "Northern Ireland"
	ExtentUK              Extent = "United Kingdom"
)

// ParseExtent maps the compact extent code (e.g. "E", "E+W+S+N.I.") to the
// set of jurisdictions it denotes.
func ParseExtent(code string) []Extent {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	parts := strings.Split(code, "+")
	if len(parts) == 4 && hasAll(parts, "E", "W", "S", "N.I.") {
		return []Extent{ExtentUK}
	}
	extents := make([]Extent, 0, len(parts))
	for _, p := range parts {
		switch strings.TrimSpace(p) {
		case "E":
			extents = append(extents, ExtentEngland)
		case "W":
			extents = append(extents, ExtentWales)
		case "S":
			extents = append(extents, ExtentScotland)
		case "N.I.":
			extents = append(extents, ExtentNorthernIreland)
		}
	}
	return extents
}

func hasAll(parts []string, want ...string) bool {
	set := make(map[string]bool, len(parts))
	for _, p := range parts {
		set[strings.TrimSpace(p)] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}

// ProvisionType distinguishes a numbered section from a schedule.
type ProvisionType string

const (
	ProvisionSection  ProvisionType = "section"
	ProvisionSchedule ProvisionType = "schedule"
)

// Status is the lifecycle state of a document's content.
type Status string

const (
	StatusInForce  Status = "in_force"
	StatusRepealed Status = "repealed"
	StatusUnknown  Status = "unknown"
)

// ProvenanceSource distinguishes native-XML content from OCR fallback content.
type ProvenanceSource string

const (
	ProvenanceXML ProvenanceSource = "xml"
	ProvenanceOCR ProvenanceSource = "ocr"
)

// Provenance records where a Document's content came from when it was not
// parsed directly from the authority's XML.
type Provenance struct {
	Source        ProvenanceSource `json:"source"`
	Model         string           `json:"model,omitempty"`
	PromptVersion string           `json:"prompt_version,omitempty"`
	Timestamp     string           `json:"timestamp,omitempty"`
	ResponseID    string           `json:"response_id,omitempty"`
}
