// Package conf is a registry test fixture. An unrelated conf.Config lives
// under internal/beta/conf; the two are distinct reflect.Types sharing the
// display string "conf.Config".
package conf

type Config struct {
	Host string
}
