// Package services holds the shared error taxonomy for mediamend service
// integrations and its mapping onto HTTP response codes.
package services
