package domain

// AccountType represents the kind of bank account a client transfers through.
type AccountType string

const (
	AccountTypeSavings  AccountType = "AHORRO"
	AccountTypeChecking AccountType = "CORRIENTE"
)

// Client represents a client who requests package deliveries.
type Client struct {
	ID            int64
	Name          string
	Phone         string
	Address       string
	Bank          string
	AccountNumber string
	AccountType   AccountType
	IsActive      bool
}
