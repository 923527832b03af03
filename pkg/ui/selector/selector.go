// Package selector is an interactive checklist used to pick vaults.
//
// Keys: up/down (or k/j) move, space toggles, "a" toggles every visible
// item, "/" starts a fuzzy filter, enter confirms and esc or ctrl+c aborts.
package selector

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/types"
	"github.com/arthur-debert/ovm/pkg/ui/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Messages shown by the vault selector
const (
	VaultsTitle        = "Select the vaults:"
	VaultsRequiredHint = "At least one vault must be selected"
)

// Item is one selectable entry
type Item struct {
	Label  string
	Detail string
}

// Model is the bubbletea model of the checklist
type Model struct {
	title    string
	required string
	items    []Item
	selected map[int]bool

	// visible holds indices into items matching the filter
	visible []int
	cursor  int

	filtering bool
	filter    string

	message string
	done    bool
	aborted bool
}

// New returns a checklist over items. required is shown when confirming
// with nothing selected.
func New(title string, items []Item, required string) Model {
	m := Model{
		title:    title,
		required: required,
		items:    items,
		selected: make(map[int]bool),
	}
	m.applyFilter()
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC:
		m.aborted = true
		return m, tea.Quit
	case tea.KeyEsc:
		if m.filtering {
			m.filtering = false
			m.filter = ""
			m.applyFilter()
			return m, nil
		}
		m.aborted = true
		return m, tea.Quit
	case tea.KeyEnter:
		if m.filtering {
			m.filtering = false
			return m, nil
		}
		if len(m.Selected()) == 0 {
			m.message = m.required
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	case tea.KeyUp:
		m.move(-1)
		return m, nil
	case tea.KeyDown:
		m.move(1)
		return m, nil
	case tea.KeySpace:
		if !m.filtering {
			m.toggle()
			return m, nil
		}
	case tea.KeyBackspace:
		if m.filtering && m.filter != "" {
			m.filter = m.filter[:len(m.filter)-1]
			m.applyFilter()
		}
		return m, nil
	}

	if m.filtering {
		switch key.Type {
		case tea.KeyRunes:
			m.filter += string(key.Runes)
			m.applyFilter()
		case tea.KeySpace:
			m.filter += " "
			m.applyFilter()
		}
		return m, nil
	}

	switch key.String() {
	case "k":
		m.move(-1)
	case "j":
		m.move(1)
	case "a":
		m.toggleAll()
	case "/":
		m.filtering = true
	}
	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.Render("Title", m.title))
	b.WriteString("\n")

	if m.filtering || m.filter != "" {
		b.WriteString(styles.Render("Filter", "/"+m.filter))
		b.WriteString("\n")
	}

	for row, idx := range m.visible {
		item := m.items[idx]
		pointer := "  "
		if row == m.cursor {
			pointer = styles.Render("Cursor", "> ")
		}
		box := "[ ]"
		label := item.Label
		if m.selected[idx] {
			box = styles.Render("Selected", "[x]")
			label = styles.Render("Selected", label)
		}
		line := fmt.Sprintf("%s%s %s", pointer, box, label)
		if item.Detail != "" {
			line += " " + styles.Render("Path", item.Detail)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.visible) == 0 {
		b.WriteString(styles.Render("Muted", "  no matches"))
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString(styles.Render("Error", m.message))
		b.WriteString("\n")
	}
	b.WriteString(styles.Render("Help", "space toggle • a all • / filter • enter confirm • esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the selected item indices in item order
func (m Model) Selected() []int {
	out := make([]int, 0, len(m.selected))
	for idx, ok := range m.selected {
		if ok {
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}

// Aborted reports whether the user cancelled
func (m Model) Aborted() bool {
	return m.aborted
}

func (m *Model) move(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.visible)) % len(m.visible)
}

func (m *Model) toggle() {
	if len(m.visible) == 0 {
		return
	}
	idx := m.visible[m.cursor]
	m.selected[idx] = !m.selected[idx]
	m.message = ""
}

// toggleAll selects every visible item, or clears them when all are selected
func (m *Model) toggleAll() {
	all := true
	for _, idx := range m.visible {
		if !m.selected[idx] {
			all = false
			break
		}
	}
	for _, idx := range m.visible {
		m.selected[idx] = !all
	}
	m.message = ""
}

func (m *Model) applyFilter() {
	m.visible = make([]int, 0, len(m.items))
	if strings.TrimSpace(m.filter) == "" {
		for i := range m.items {
			m.visible = append(m.visible, i)
		}
	} else {
		labels := make([]string, len(m.items))
		for i, item := range m.items {
			labels[i] = item.Label
		}
		ranks := fuzzy.RankFindFold(strings.TrimSpace(m.filter), labels)
		sort.Stable(ranks)
		for _, r := range ranks {
			m.visible = append(m.visible, r.OriginalIndex)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = 0
	}
}

// Run shows the checklist on out and returns the selected indices
func Run(title string, items []Item, required string, in io.Reader, out io.Writer) ([]int, error) {
	program := tea.NewProgram(New(title, items, required), tea.WithInput(in), tea.WithOutput(out))
	final, err := program.Run()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "selection failed")
	}

	m := final.(Model)
	if m.Aborted() {
		return nil, errors.New(errors.ErrInvalidInput, "selection cancelled")
	}
	return m.Selected(), nil
}

// SortVaults returns vaults sorted by name for display
func SortVaults(vaults []types.Vault) []types.Vault {
	sorted := make([]types.Vault, len(vaults))
	copy(sorted, vaults)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	return sorted
}

// SelectVaults asks which vaults to use
func SelectVaults(vaults []types.Vault) ([]types.Vault, error) {
	sorted := SortVaults(vaults)
	items := make([]Item, len(sorted))
	for i, v := range sorted {
		items[i] = Item{Label: v.Name, Detail: v.Path}
	}

	picked, err := Run(VaultsTitle, items, VaultsRequiredHint, os.Stdin, os.Stderr)
	if err != nil {
		return nil, err
	}

	out := make([]types.Vault, 0, len(picked))
	for _, idx := range picked {
		out = append(out, sorted[idx])
	}
	return out, nil
}
