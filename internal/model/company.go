package model

// NotFound is the placeholder written for any identifier or detail field that
// could not be resolved.
const NotFound = "(查無資料)"

// Output column headers, appended to the input sheet in this order.
const (
	ColRegistrationID = "統一編號"
	ColLegalName      = "公司全名"
	ColAddress        = "地址"
	ColGeneralManager = "總經理"
	ColChairman       = "董事長"
	ColPhone          = "電話"
	ColEmail          = "信箱"
)

// OutputColumns lists the appended columns in their fixed order.
var OutputColumns = []string{
	ColRegistrationID,
	ColLegalName,
	ColAddress,
	ColGeneralManager,
	ColChairman,
	ColPhone,
	ColEmail,
}

// Details holds the six fields scraped from the detail page.
type Details struct {
	LegalName      string `json:"legal_name" yaml:"legal_name"`
	Address        string `json:"address" yaml:"address"`
	GeneralManager string `json:"general_manager" yaml:"general_manager"`
	Chairman       string `json:"chairman" yaml:"chairman"`
	Phone          string `json:"phone" yaml:"phone"`
	Email          string `json:"email" yaml:"email"`
}

// NotFoundDetails returns a Details with every field set to NotFound.
func NotFoundDetails() Details {
	return Details{
		LegalName:      NotFound,
		Address:        NotFound,
		GeneralManager: NotFound,
		Chairman:       NotFound,
		Phone:          NotFound,
		Email:          NotFound,
	}
}

// CompanyRecord is one input row plus the enrichment gathered for it.
type CompanyRecord struct {
	Index          int      `json:"index"`
	Name           string   `json:"name"`
	Row            []string `json:"-"` // original cells, passed through unchanged
	RegistrationID string   `json:"registration_id"`
	Details        Details  `json:"details"`
}

// NewCompanyRecord creates a record whose enrichment fields are all NotFound.
func NewCompanyRecord(index int, name string, row []string) *CompanyRecord {
	return &CompanyRecord{
		Index:          index,
		Name:           name,
		Row:            row,
		RegistrationID: NotFound,
		Details:        NotFoundDetails(),
	}
}

// Resolved reports whether an identifier was found for the record.
func (c *CompanyRecord) Resolved() bool {
	return c.RegistrationID != "" && c.RegistrationID != NotFound
}

// OutputValues returns the appended cell values in OutputColumns order.
func (c *CompanyRecord) OutputValues() []string {
	return []string{
		c.RegistrationID,
		c.Details.LegalName,
		c.Details.Address,
		c.Details.GeneralManager,
		c.Details.Chairman,
		c.Details.Phone,
		c.Details.Email,
	}
}
