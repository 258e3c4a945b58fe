package entity

import "fmt"

// Collection names a record collection on the data backend
type Collection string

const (
	CollectionPatients      Collection = "patients"
	CollectionQueue         Collection = "queue"
	CollectionExaminations  Collection = "examinations"
	CollectionPrescriptions Collection = "prescriptions"
	CollectionTransactions  Collection = "transactions"
	CollectionMedicines     Collection = "medicines"
	CollectionUsers         Collection = "users"
)

// Patchable field names, as they appear on the wire
const (
	FieldStatus = "status"
	FieldStock  = "stock"
	FieldName   = "name"
	FieldUnit   = "unit"
	FieldPrice  = "price"
)

type collectionModel struct {
	record func() Record
	list   func() interface{}
}

var collectionModels = map[Collection]collectionModel{
	CollectionPatients:      {func() Record { return &Patient{} }, func() interface{} { return &[]Patient{} }},
	CollectionQueue:         {func() Record { return &QueueEntry{} }, func() interface{} { return &[]QueueEntry{} }},
	CollectionExaminations:  {func() Record { return &Examination{} }, func() interface{} { return &[]Examination{} }},
	CollectionPrescriptions: {func() Record { return &Prescription{} }, func() interface{} { return &[]Prescription{} }},
	CollectionTransactions:  {func() Record { return &Transaction{} }, func() interface{} { return &[]Transaction{} }},
	CollectionMedicines:     {func() Record { return &Medicine{} }, func() interface{} { return &[]Medicine{} }},
	CollectionUsers:         {func() Record { return &User{} }, func() interface{} { return &[]User{} }},
}

// Collections lists every known collection in a stable order
func Collections() []Collection {
	return []Collection{
		CollectionPatients,
		CollectionQueue,
		CollectionExaminations,
		CollectionPrescriptions,
		CollectionTransactions,
		CollectionMedicines,
		CollectionUsers,
	}
}

// NewRecord returns an empty record of the collection's model
func NewRecord(c Collection) (Record, error) {
	m, ok := collectionModels[c]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", c)
	}
	return m.record(), nil
}

// NewRecordList returns a pointer to an empty slice of the collection's model
func NewRecordList(c Collection) (interface{}, error) {
	m, ok := collectionModels[c]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", c)
	}
	return m.list(), nil
}

// Models returns one empty record per collection, for schema migration
func Models() []interface{} {
	models := make([]interface{}, 0, len(collectionModels))
	for _, c := range Collections() {
		models = append(models, collectionModels[c].record())
	}
	return models
}
