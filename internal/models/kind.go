package models

// Kind discriminates expense entries from income entries. Transactions and
// categories share the same two-valued discriminator.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Valid reports whether k is one of the two known kinds.
func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}
