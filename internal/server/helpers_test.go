package server

import (
	"os"
	"strconv"
)

func itoa(n int) string { return strconv.Itoa(n) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func writeFile(path, content string) error { return os.WriteFile(path, []byte(content), 0o644) }
