// doc.go -- keyed CSV diff engine
//
// Computes the semantic difference between two CSV inputs identified by a
// primary key: records present only on the left (Delete), only on the
// right (Add), and records whose key appears on both sides but whose
// other fields differ (Modify, with the differing column indices).
//
// Record identity is purely keyed, so row reordering between inputs is not
// a difference. Diffing is not line-oriented: two inputs with their data
// rows permuted produce the same result.
package csvdiff
