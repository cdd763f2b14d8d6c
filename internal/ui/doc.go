// Package ui renders the styled console output shown in interactive sessions.
package ui
