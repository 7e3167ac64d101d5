package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	// Catalog
	&Product{},
	&Customer{},
	// Sales
	&Transaction{},
	&TransactionItem{},
}
