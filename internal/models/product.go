package models

// ProductRecord is one stored product, one per physical storage slot.
// Every field is optional in the store; Quantity is a pointer so an absent
// value can be told apart from an empty one.
type ProductRecord struct {
	ID          string  `json:"_id,omitempty" bson:"_id,omitempty" csv:"-"`
	Position    string  `json:"position,omitempty" bson:"position,omitempty" csv:"position,omitempty"`
	Code        string  `json:"code,omitempty" bson:"code,omitempty" csv:"code"`
	ProductList string  `json:"product_list,omitempty" bson:"product_list,omitempty" csv:"product_list"`
	Quantity    *string `json:"quantity,omitempty" bson:"quantity,omitempty" csv:"quantity,omitempty"`
	Pos         string  `json:"pos,omitempty" bson:"pos,omitempty" csv:"pos"`
}

// QuantityOf is a small helper for building records with a quantity set.
func QuantityOf(q string) *string {
	return &q
}
