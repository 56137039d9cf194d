package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ar90n/bookmarkdown-sub001/internal/merge"
)

// ConflictResolver handles interactive conflict resolution with users.
type ConflictResolver struct {
	reader *bufio.Reader
}

// NewConflictResolver creates a new interactive conflict resolver.
func NewConflictResolver() *ConflictResolver {
	return &ConflictResolver{
		reader: bufio.NewReader(os.Stdin),
	}
}

// ResolveConflicts prompts the user for each conflict in turn and returns
// the collected resolutions.
func (cr *ConflictResolver) ResolveConflicts(conflicts []merge.Conflict) ([]merge.Resolution, error) {
	resolutions := make([]merge.Resolution, 0, len(conflicts))

	fmt.Printf("\n=== Conflict Resolution ===\n")
	fmt.Printf("Found %d conflict(s) that require resolution.\n\n", len(conflicts))

	for i, conflict := range conflicts {
		fmt.Printf("--- Conflict %d of %d: %s ---\n", i+1, len(conflicts), conflict.Path())
		fmt.Printf("Level: %s\n", conflict.Type)
		fmt.Printf("Local modified:  %s\n", conflict.LocalModified)
		fmt.Printf("Remote modified: %s\n\n", conflict.RemoteModified)

		choice, err := cr.promptChoice(conflict)
		if err != nil {
			return nil, fmt.Errorf("failed to get resolution for %s: %w", conflict.Path(), err)
		}

		resolutions = append(resolutions, conflict.ResolutionFor(choice))
		fmt.Printf("✓ Resolved %s with: %s\n\n", conflict.Path(), choice)
	}

	return resolutions, nil
}

// promptChoice asks the user to choose how to resolve a conflict.
func (cr *ConflictResolver) promptChoice(conflict merge.Conflict) (merge.Choice, error) {
	fmt.Println("How would you like to resolve this conflict?")
	fmt.Println("  1. Keep local version")
	fmt.Println("  2. Take remote version")
	fmt.Println("  3. Leave pending (resolve later)")
	fmt.Println("  4. Show local version")
	fmt.Println("  5. Show remote version")
	fmt.Print("\nEnter choice [1-5]: ")

	for {
		response, err := cr.reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		response = strings.TrimSpace(response)
		choice, err := strconv.Atoi(response)
		if err != nil || choice < 1 || choice > 5 {
			fmt.Print("Invalid choice. Enter 1-5: ")
			continue
		}

		switch choice {
		case 1:
			return merge.ChoiceLocal, nil
		case 2:
			return merge.ChoiceRemote, nil
		case 3:
			return merge.ChoicePending, nil
		case 4:
			cr.showSide("LOCAL", conflictSideNode(conflict, true))
			fmt.Print("\nEnter choice [1-5]: ")
		case 5:
			cr.showSide("REMOTE", conflictSideNode(conflict, false))
			fmt.Print("\nEnter choice [1-5]: ")
		}
	}
}

// conflictSideNode returns the node carried by one side of a conflict, or
// nil when that side is absent.
func conflictSideNode(c merge.Conflict, local bool) any {
	switch c.Type {
	case merge.ConflictBookmark:
		if local && c.LocalBookmark != nil {
			return c.LocalBookmark
		}
		if !local && c.RemoteBookmark != nil {
			return c.RemoteBookmark
		}
	case merge.ConflictBundle:
		if local && c.LocalBundle != nil {
			return c.LocalBundle
		}
		if !local && c.RemoteBundle != nil {
			return c.RemoteBundle
		}
	default:
		if local && c.LocalCategory != nil {
			return c.LocalCategory
		}
		if !local && c.RemoteCategory != nil {
			return c.RemoteCategory
		}
	}
	return nil
}

// showSide displays one side of a conflict in full.
func (cr *ConflictResolver) showSide(label string, node any) {
	fmt.Printf("\n=== %s VERSION ===\n", label)
	fmt.Println(strings.Repeat("-", 50))

	if node == nil {
		fmt.Println("(absent)")
		fmt.Println(strings.Repeat("-", 50))
		return
	}

	data, err := yaml.Marshal(node)
	if err != nil {
		fmt.Printf("(failed to render: %v)\n", err)
		fmt.Println(strings.Repeat("-", 50))
		return
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	for i, line := range lines {
		fmt.Printf("%4d | %s\n", i+1, line)
	}

	fmt.Println(strings.Repeat("-", 50))
}
