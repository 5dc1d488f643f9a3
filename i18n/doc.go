// Package i18n holds the user-facing notices in English and Russian.
package i18n
