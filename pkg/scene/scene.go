package scene

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Lookup Helpers
// =============================================================================

// NodeByID returns the node spec with the given id, or nil.
func (s *Scene) NodeByID(id string) *NodeSpec {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i]
		}
	}
	return nil
}

// ContainerByID returns the container spec with the given id, or nil.
func (s *Scene) ContainerByID(id string) *ContainerSpec {
	for i := range s.Containers {
		if s.Containers[i].ID == id {
			return &s.Containers[i]
		}
	}
	return nil
}

// ConnectionKeys returns the identity of every connection in document order.
func (s *Scene) ConnectionKeys() []string {
	keys := make([]string, len(s.Connections))
	for i := range s.Connections {
		keys[i] = s.Connections[i].Key()
	}
	return keys
}

// ContainerMembers returns the ids of all nodes placed inside the container,
// in document order. Aligned nodes are not members; they only borrow an x
// coordinate.
func (s *Scene) ContainerMembers(containerID string) []string {
	var members []string
	for i := range s.Nodes {
		if s.Nodes[i].Container == containerID {
			members = append(members, s.Nodes[i].ID)
		}
	}
	return members
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a Scene to pretty-printed JSON bytes.
func Marshal(s Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Scene and validates it.
func Unmarshal(data []byte) (Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return Scene{}, fmt.Errorf("unmarshal scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Scene{}, err
	}
	return s, nil
}

// WriteSceneFile writes a Scene to a JSON file.
func WriteSceneFile(s Scene, path string) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadSceneFile reads and validates a Scene from a JSON file.
func ReadSceneFile(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
