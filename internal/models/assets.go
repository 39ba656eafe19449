package models

// BankAccount is one account row scraped from a bank portal.
type BankAccount struct {
	Name     string `json:"name"`
	Number   string `json:"number"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// BankAssets is the full asset listing for one bank login.
type BankAssets struct {
	Bank     string        `json:"bank"`
	Accounts []BankAccount `json:"accounts"`
}
