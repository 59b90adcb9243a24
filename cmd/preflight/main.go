// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"
	"time"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	admin := strings.TrimSpace(os.Getenv("ADMIN_API_KEYS"))
	addr := strings.TrimSpace(os.Getenv("ADDR"))
	driver := strings.TrimSpace(os.Getenv("DATABASE_DRIVER"))
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	zone := strings.TrimSpace(os.Getenv("LOCAL_ZONE"))

	if admin == "" {
		warn("ADMIN_API_KEYS empty — task triggers will be open to anyone who can reach the port.")
	} else if strings.Contains(admin, " ") {
		warn("ADMIN_API_KEYS contains spaces; use comma-separated with no spaces, e.g. key1,key2")
	} else {
		ok("ADMIN_API_KEYS present")
	}

	if addr == "" {
		warn("ADDR is empty; default in your app may be used.")
	} else {
		ok("ADDR=" + addr)
	}

	switch driver {
	case "", "memory":
		warn("DATABASE_DRIVER is memory — all check logs vanish on restart.")
	case "sqlite", "postgres":
		if db == "" {
			fail("DATABASE_DRIVER=" + driver + " but DATABASE_URL is empty.")
		}
		ok("DATABASE_DRIVER=" + driver)
	default:
		fail("unknown DATABASE_DRIVER " + driver + " (want memory, sqlite or postgres)")
	}

	if zone == "" {
		ok("LOCAL_ZONE empty — defaulting to Europe/Prague")
	} else if _, err := time.LoadLocation(zone); err != nil {
		fail("LOCAL_ZONE " + zone + " does not parse: " + err.Error())
	} else {
		ok("LOCAL_ZONE=" + zone)
	}

	ok("preflight passed")
}
