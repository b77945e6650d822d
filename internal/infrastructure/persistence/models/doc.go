// Package models contains the GORM persistence models of the SQL catalog.
// They stay separate from domain types; each model converts with ToDomain
// and a matching constructor.
package models
