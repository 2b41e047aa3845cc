// Package bookfile reads and writes the line-oriented text format used
// to persist a ledger book:
//
//	USERS <n>
//	<n member-name lines>
//	EXPENSES <n>
//	PAYER <name> AMT <amount>
//	SHARES <m>
//	<m "<name> <amount>" lines>
//
// Amounts are written with two decimal places. The format carries no
// version marker.
package bookfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/splitbook/splitbook/internal/ledger"
	"github.com/splitbook/splitbook/internal/models"
)

// ErrCorrupt reports a structurally malformed book file. The wrapped
// message names the section that failed to parse.
var ErrCorrupt = errors.New("corrupt book file")

// Write serializes the book to w.
func Write(w io.Writer, book *ledger.Book) error {
	bw := bufio.NewWriter(w)

	members := book.Members()
	fmt.Fprintf(bw, "USERS %d\n", len(members))
	for _, name := range members {
		fmt.Fprintln(bw, name)
	}

	expenses := book.Expenses()
	fmt.Fprintf(bw, "EXPENSES %d\n", len(expenses))
	for _, e := range expenses {
		fmt.Fprintf(bw, "PAYER %s AMT %.2f\n", e.Payer, e.Amount)
		fmt.Fprintf(bw, "SHARES %d\n", len(e.Shares))
		for _, name := range sortedShareNames(e.Shares) {
			fmt.Fprintf(bw, "%s %.2f\n", name, e.Shares[name])
		}
	}
	return bw.Flush()
}

// Read parses a serialized book from r, replacing the contents of book.
// The book is cleared before parsing begins, so a malformed file leaves
// behind whatever prefix parsed successfully — callers that need the old
// state must keep their own copy.
func Read(r io.Reader, book *ledger.Book) error {
	book.Reset()
	sc := bufio.NewScanner(r)

	n, err := header(sc, "USERS")
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		name, ok := nextLine(sc)
		if !ok {
			return fmt.Errorf("%w: truncated user list", ErrCorrupt)
		}
		book.AddMember(name)
	}

	n, err = header(sc, "EXPENSES")
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		e, err := readExpense(sc)
		if err != nil {
			return err
		}
		book.Append(e)
	}
	return nil
}

// Save writes the book to path, replacing any existing file.
func Save(path string, book *ledger.Book) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating book file: %w", err)
	}
	if err := Write(f, book); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load replaces the contents of book with the file at path. As with
// Read, the book is cleared before parsing.
func Load(path string, book *ledger.Book) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening book file: %w", err)
	}
	defer f.Close()
	return Read(f, book)
}

func readExpense(sc *bufio.Scanner) (models.Expense, error) {
	fields, ok := nextFields(sc)
	if !ok || len(fields) != 4 || fields[0] != "PAYER" || fields[2] != "AMT" {
		return models.Expense{}, fmt.Errorf("%w: bad expense header", ErrCorrupt)
	}
	amount, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return models.Expense{}, fmt.Errorf("%w: bad expense amount %q", ErrCorrupt, fields[3])
	}
	e := models.Expense{Payer: fields[1], Amount: amount, Shares: make(map[string]float64)}

	m, err := header(sc, "SHARES")
	if err != nil {
		return models.Expense{}, err
	}
	for i := 0; i < m; i++ {
		fields, ok := nextFields(sc)
		if !ok || len(fields) != 2 {
			return models.Expense{}, fmt.Errorf("%w: bad share entry", ErrCorrupt)
		}
		share, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return models.Expense{}, fmt.Errorf("%w: bad share amount %q", ErrCorrupt, fields[1])
		}
		e.Shares[fields[0]] = share
	}
	return e, nil
}

// header reads the next non-empty line and requires it to be "<tag> <count>".
func header(sc *bufio.Scanner, tag string) (int, error) {
	fields, ok := nextFields(sc)
	if !ok || len(fields) != 2 || fields[0] != tag {
		return 0, fmt.Errorf("%w: missing %s header", ErrCorrupt, tag)
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bad %s count %q", ErrCorrupt, tag, fields[1])
	}
	return n, nil
}

// nextLine returns the next non-empty line, preserving interior spaces
// so member names like "Mary Ann" survive a round trip.
func nextLine(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		return line, true
	}
	return "", false
}

func nextFields(sc *bufio.Scanner) ([]string, bool) {
	line, ok := nextLine(sc)
	if !ok {
		return nil, false
	}
	return strings.Fields(line), true
}

func sortedShareNames(shares map[string]float64) []string {
	names := make([]string, 0, len(shares))
	for name := range shares {
		names = append(names, name)
	}
	// Deterministic output keeps saved files diffable.
	sort.Strings(names)
	return names
}
