package utils

import (
	"bufio"
	"fmt"
	"io/fs"
	"strings"

	"github.com/twmb/murmur3"
)

func HashString(s string) uint64 {
	hash := murmur3.New64()
	_, err := hash.Write([]byte(s))
	if err != nil {
		panic(err)
	}
	return hash.Sum64()
}

// HashKey is the hex form of HashString, used to name stored objects.
func HashKey(s string) string {
	return fmt.Sprintf("%016x", HashString(s))
}

func RecoverWithError(err *error) {
	if rv := recover(); rv != nil {
		*err = fmt.Errorf("got panic: %v", rv)
	}
}

// ReadRows reads a bar separated file, skipping blank lines and '#' comments.
// Every row must have exactly columns fields.
func ReadRows(fsys fs.FS, name string, columns int) ([][]string, error) {
	var rows [][]string
	err := scanLines(fsys, name, func(n int, line string) error {
		row := strings.Split(line, "|")
		if len(row) != columns {
			return fmt.Errorf("%s:%d: expected %d columns, got %d", name, n, columns, len(row))
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func ReadMap(fsys fs.FS, name string) (map[string]string, error) {
	rows, err := ReadRows(fsys, name, 2)
	if err != nil {
		return nil, err
	}
	result := make(map[string]string, len(rows))
	for _, row := range rows {
		result[row[0]] = row[1]
	}
	return result, nil
}

func ReadSet(fsys fs.FS, name string) (map[string]bool, error) {
	result := make(map[string]bool)
	err := scanLines(fsys, name, func(_ int, line string) error {
		result[line] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func scanLines(fsys fs.FS, name string, handle func(n int, line string) error) error {
	file, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := handle(n, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}
