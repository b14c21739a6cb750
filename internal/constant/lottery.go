package constant

const (
	LottoNumberMin = 1
	LottoNumberMax = 45

	DefaultHistoryLimit = 200
	DefaultComboLimit   = 50
)
