// internal/models/agents.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

type AgentRole string

const (
	RoleDuelist    AgentRole = "Duelist"
	RoleInitiator  AgentRole = "Initiator"
	RoleController AgentRole = "Controller"
	RoleSentinel   AgentRole = "Sentinel"
)

var AgentRoles = []AgentRole{RoleDuelist, RoleInitiator, RoleController, RoleSentinel}

type Agent struct {
	Key  string    `json:"key"`
	Name string    `json:"name"`
	Role AgentRole `json:"role"`
}

var Agents = []Agent{
	{Key: "jett", Name: "Jett", Role: RoleDuelist},
	{Key: "phoenix", Name: "Phoenix", Role: RoleDuelist},
	{Key: "reyna", Name: "Reyna", Role: RoleDuelist},
	{Key: "raze", Name: "Raze", Role: RoleDuelist},
	{Key: "yoru", Name: "Yoru", Role: RoleDuelist},
	{Key: "neon", Name: "Neon", Role: RoleDuelist},
	{Key: "iso", Name: "Iso", Role: RoleDuelist},
	{Key: "waylay", Name: "Waylay", Role: RoleDuelist},
	{Key: "sova", Name: "Sova", Role: RoleInitiator},
	{Key: "breach", Name: "Breach", Role: RoleInitiator},
	{Key: "skye", Name: "Skye", Role: RoleInitiator},
	{Key: "kay-o", Name: "KAY/O", Role: RoleInitiator},
	{Key: "fade", Name: "Fade", Role: RoleInitiator},
	{Key: "gekko", Name: "Gekko", Role: RoleInitiator},
	{Key: "tejo", Name: "Tejo", Role: RoleInitiator},
	{Key: "brimstone", Name: "Brimstone", Role: RoleController},
	{Key: "viper", Name: "Viper", Role: RoleController},
	{Key: "omen", Name: "Omen", Role: RoleController},
	{Key: "astra", Name: "Astra", Role: RoleController},
	{Key: "harbor", Name: "Harbor", Role: RoleController},
	{Key: "clove", Name: "Clove", Role: RoleController},
	{Key: "sage", Name: "Sage", Role: RoleSentinel},
	{Key: "cypher", Name: "Cypher", Role: RoleSentinel},
	{Key: "killjoy", Name: "Killjoy", Role: RoleSentinel},
	{Key: "chamber", Name: "Chamber", Role: RoleSentinel},
	{Key: "deadlock", Name: "Deadlock", Role: RoleSentinel},
	{Key: "vyse", Name: "Vyse", Role: RoleSentinel},
	{Key: "veto", Name: "Veto", Role: RoleSentinel},
}

var agentsByKey = func() map[string]Agent {
	lookup := make(map[string]Agent, len(Agents))
	for _, agent := range Agents {
		lookup[agent.Key] = agent
	}
	return lookup
}()

// LookupAgent returns the catalog entry for key.
func LookupAgent(key string) (Agent, bool) {
	agent, ok := agentsByKey[key]
	return agent, ok
}

// AgentsByRole groups the catalog in role display order.
func AgentsByRole() map[AgentRole][]Agent {
	grouped := make(map[AgentRole][]Agent, len(AgentRoles))
	for _, agent := range Agents {
		grouped[agent.Role] = append(grouped[agent.Role], agent)
	}
	return grouped
}

// DecodeAgentPrefs reads the JSON array stored on a user row. Malformed values
// decode as no preferences.
func DecodeAgentPrefs(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil
	}
	return keys
}

// NormalizeAgentPrefs drops duplicates and keeps submission order. Unknown
// keys are rejected.
func NormalizeAgentPrefs(keys []string) ([]string, error) {
	seen := make(map[string]struct{}, len(keys))
	normalized := make([]string, 0, len(keys))
	for _, key := range keys {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if _, ok := agentsByKey[key]; !ok {
			return nil, fmt.Errorf("unknown agent %q", key)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		normalized = append(normalized, key)
	}
	return normalized, nil
}

// EncodeAgentPrefs renders keys for storage. A nil slice encodes as "[]".
func EncodeAgentPrefs(keys []string) string {
	if len(keys) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(keys)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}
