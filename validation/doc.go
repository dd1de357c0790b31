// Package validation provides two complementary validation styles: a
// fluent Validator for imperative request checks and a struct-tag
// Validate built on go-playground/validator. Both report failures as
// errors.AppError with per-field details.
package validation
