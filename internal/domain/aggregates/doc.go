// Package aggregates holds the coded error type used across the bot's write
// paths and guards.
package aggregates
