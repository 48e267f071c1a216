// Package models contains GORM-specific persistence models for aggregates
// whose domain shape does not map one-to-one onto table columns.
//
// Most aggregates (partners, accounts, links) are flat and are persisted
// directly by the repositories in the parent package. Search sessions carry
// nested criteria and money value objects, so they go through a model here
// that flattens them into columns and reconstructs them on read.
package models
