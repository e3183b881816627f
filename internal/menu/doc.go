// Package menu loads, imports, exports and persists the list of combos that progress sessions shuffle.
package menu
