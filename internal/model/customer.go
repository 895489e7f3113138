// Package model defines the canonical customer entity shared by the store,
// the sheet adapter and the reconcilers, together with the closed vertical
// and status vocabularies and the cell-level normalization rules.
package model

import (
	"time"
)

// Field names the internal customer attributes that can be mapped to sheet
// columns. Sheet schemas are declared as Field -> header text.
type Field string

const (
	FieldSerial             Field = "serial"
	FieldName               Field = "name"
	FieldMobile             Field = "mobile"
	FieldEmail              Field = "email"
	FieldPolicyNumber       Field = "policy_number"
	FieldCompany            Field = "company"
	FieldRegistrationNumber Field = "registration_number"
	FieldProductType        Field = "product_type"
	FieldVertical           Field = "vertical"
	FieldStatus             Field = "status"
	FieldPremiumAmount      Field = "premium_amount"
	FieldPremiumMode        Field = "premium_mode"
	FieldLastYearPremium    Field = "last_year_premium"
	FieldRenewalDate        Field = "renewal_date"
	FieldODExpiryDate       Field = "od_expiry_date"
	FieldTPExpiryDate       Field = "tp_expiry_date"
	FieldPaymentDate        Field = "payment_date"
	FieldPolicyStartDate    Field = "policy_start_date"
	FieldGCode              Field = "g_code"
	FieldCustomerID         Field = "customer_id"
	FieldAgentCode          Field = "agent_code"
	FieldPAN                Field = "pan"
	FieldAadhar             Field = "aadhar"
	FieldGST                Field = "gst"
	FieldBankName           Field = "bank_name"
	FieldChequeNumber       Field = "cheque_number"
)

// Fields lists every mappable field. FieldSerial is sheet-only: it names the
// running serial-number column and never lands on the customer record.
var Fields = []Field{
	FieldSerial,
	FieldName,
	FieldMobile,
	FieldEmail,
	FieldPolicyNumber,
	FieldCompany,
	FieldRegistrationNumber,
	FieldProductType,
	FieldVertical,
	FieldStatus,
	FieldPremiumAmount,
	FieldPremiumMode,
	FieldLastYearPremium,
	FieldRenewalDate,
	FieldODExpiryDate,
	FieldTPExpiryDate,
	FieldPaymentDate,
	FieldPolicyStartDate,
	FieldGCode,
	FieldCustomerID,
	FieldAgentCode,
	FieldPAN,
	FieldAadhar,
	FieldGST,
	FieldBankName,
	FieldChequeNumber,
}

// KnownField reports whether name is a declared internal field.
func KnownField(name string) bool {
	for _, f := range Fields {
		if Field(name) == f {
			return true
		}
	}
	return false
}

// Customer is one insurance policy/customer pairing. ID is the opaque
// database key; SheetRowNumber is the 1-based sheet position at last sync and
// is a hint, not an identity (humans shift rows).
type Customer struct {
	ID             int64 `json:"id"`
	UserID         int64 `json:"user_id"`
	SheetRowNumber int   `json:"sheet_row_number"`

	Name               string   `json:"name"`
	Mobile             string   `json:"mobile"`
	Email              string   `json:"email,omitempty"`
	PolicyNumber       string   `json:"policy_number"`
	Company            string   `json:"company,omitempty"`
	RegistrationNumber string   `json:"registration_number,omitempty"`
	ProductType        string   `json:"product_type,omitempty"`
	Vertical           Vertical `json:"vertical"`
	Status             Status   `json:"status"`

	PremiumAmount   float64 `json:"premium_amount"`
	PremiumMode     string  `json:"premium_mode,omitempty"`
	LastYearPremium float64 `json:"last_year_premium"`

	RenewalDate     string `json:"renewal_date,omitempty"`
	ODExpiryDate    string `json:"od_expiry_date,omitempty"`
	TPExpiryDate    string `json:"tp_expiry_date,omitempty"`
	PaymentDate     string `json:"payment_date,omitempty"`
	PolicyStartDate string `json:"policy_start_date,omitempty"`

	GCode        string `json:"g_code,omitempty"`
	CustomerID   string `json:"customer_id,omitempty"`
	AgentCode    string `json:"agent_code,omitempty"`
	PAN          string `json:"pan,omitempty"`
	Aadhar       string `json:"aadhar,omitempty"`
	GST          string `json:"gst,omitempty"`
	BankName     string `json:"bank_name,omitempty"`
	ChequeNumber string `json:"cheque_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FieldValue returns the internal string form of a mapped field. Amounts are
// rendered without trailing zeros; the status value is the internal token,
// not the sheet spelling (see RenderStatus).
func (c *Customer) FieldValue(f Field) string {
	switch f {
	case FieldName:
		return c.Name
	case FieldMobile:
		return c.Mobile
	case FieldEmail:
		return c.Email
	case FieldPolicyNumber:
		return c.PolicyNumber
	case FieldCompany:
		return c.Company
	case FieldRegistrationNumber:
		return c.RegistrationNumber
	case FieldProductType:
		return c.ProductType
	case FieldVertical:
		return string(c.Vertical)
	case FieldStatus:
		return string(c.Status)
	case FieldPremiumAmount:
		return FormatAmount(c.PremiumAmount)
	case FieldPremiumMode:
		return c.PremiumMode
	case FieldLastYearPremium:
		return FormatAmount(c.LastYearPremium)
	case FieldRenewalDate:
		return c.RenewalDate
	case FieldODExpiryDate:
		return c.ODExpiryDate
	case FieldTPExpiryDate:
		return c.TPExpiryDate
	case FieldPaymentDate:
		return c.PaymentDate
	case FieldPolicyStartDate:
		return c.PolicyStartDate
	case FieldGCode:
		return c.GCode
	case FieldCustomerID:
		return c.CustomerID
	case FieldAgentCode:
		return c.AgentCode
	case FieldPAN:
		return c.PAN
	case FieldAadhar:
		return c.Aadhar
	case FieldGST:
		return c.GST
	case FieldBankName:
		return c.BankName
	case FieldChequeNumber:
		return c.ChequeNumber
	default:
		return ""
	}
}

// SetField assigns a raw sheet cell to a mapped field, applying the
// per-field normalization: dates become DD/MM/YYYY when parseable, amounts
// fall back to 0, vertical and status collapse to their canonical tokens.
// FieldSerial and unknown fields are ignored.
func (c *Customer) SetField(f Field, raw string) {
	switch f {
	case FieldName:
		c.Name = clean(raw)
	case FieldMobile:
		c.Mobile = clean(raw)
	case FieldEmail:
		c.Email = clean(raw)
	case FieldPolicyNumber:
		c.PolicyNumber = clean(raw)
	case FieldCompany:
		c.Company = clean(raw)
	case FieldRegistrationNumber:
		c.RegistrationNumber = clean(raw)
	case FieldProductType:
		c.ProductType = clean(raw)
	case FieldVertical:
		c.Vertical = ParseVertical(raw)
	case FieldStatus:
		c.Status = ParseStatus(raw)
	case FieldPremiumAmount:
		c.PremiumAmount = ParseAmount(raw)
	case FieldPremiumMode:
		c.PremiumMode = clean(raw)
	case FieldLastYearPremium:
		c.LastYearPremium = ParseAmount(raw)
	case FieldRenewalDate:
		c.RenewalDate = NormalizeDate(raw)
	case FieldODExpiryDate:
		c.ODExpiryDate = NormalizeDate(raw)
	case FieldTPExpiryDate:
		c.TPExpiryDate = NormalizeDate(raw)
	case FieldPaymentDate:
		c.PaymentDate = NormalizeDate(raw)
	case FieldPolicyStartDate:
		c.PolicyStartDate = NormalizeDate(raw)
	case FieldGCode:
		c.GCode = clean(raw)
	case FieldCustomerID:
		c.CustomerID = clean(raw)
	case FieldAgentCode:
		c.AgentCode = clean(raw)
	case FieldPAN:
		c.PAN = clean(raw)
	case FieldAadhar:
		c.Aadhar = clean(raw)
	case FieldGST:
		c.GST = clean(raw)
	case FieldBankName:
		c.BankName = clean(raw)
	case FieldChequeNumber:
		c.ChequeNumber = clean(raw)
	}
}
