// Package validation validates configuration and request structs with
// go-playground/validator struct tags.
//
// Field names in error messages follow the mapstructure tag (falling back
// to json, then snake_case), so a failure reads the way the key is written
// in config.yml:
//
//	type Config struct {
//	    Token string `mapstructure:"token" validate:"required"`
//	}
//	err := validation.Validate(cfg) // "telegram.token: is required"
package validation
