package types

type Coin struct {
	_      struct{} `cbor:",toarray"`
	Denom  string   `json:"denom"`
	Amount Amount   `json:"amount"`
}

func NewCoin(denom string, amount Amount) Coin {
	return Coin{Denom: denom, Amount: amount}
}

// String returns amount immediately followed by the denom, ie "100uusd".
func (c Coin) String() string {
	return c.Amount.String() + c.Denom
}
