package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hmiyata/story-atlas/pkg/character"
	"github.com/hmiyata/story-atlas/pkg/worldmap"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return resp.StatusCode == http.StatusOK
}

func getWorldMap(client *http.Client, baseURL, project string) (*worldmap.WorldMapSystem, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/worldmap?project=%s", baseURL, project))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var system worldmap.WorldMapSystem
	if err := json.Unmarshal(body, &system); err != nil {
		return nil, fmt.Errorf("failed to parse world map response: %w", err)
	}
	return &system, nil
}

type pathRequest struct {
	Project string `json:"project"`
	FromID  string `json:"from_id"`
	ToID    string `json:"to_id"`
	Method  string `json:"method"`
}

func findPath(client *http.Client, baseURL string, req pathRequest) (*worldmap.PathResult, error) {
	body, err := postJSON(client, baseURL+"/v1/travel/path", req)
	if err != nil {
		return nil, err
	}
	var result worldmap.PathResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse path response: %w", err)
	}
	return &result, nil
}

type validateRequest struct {
	Project       string `json:"project"`
	FromLocation  string `json:"from_location"`
	ToLocation    string `json:"to_location"`
	CharacterName string `json:"character_name"`
	Chapter       int    `json:"chapter"`
}

func validateTravel(client *http.Client, baseURL string, req validateRequest) (*worldmap.ValidationResult, error) {
	body, err := postJSON(client, baseURL+"/v1/travel/validate", req)
	if err != nil {
		return nil, err
	}
	var result worldmap.ValidationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse validation response: %w", err)
	}
	return &result, nil
}

func getCharacterLocation(client *http.Client, baseURL, project, characterID string) (*character.CharacterLocation, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/characters/location?project=%s&character=%s", baseURL, project, characterID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var record character.CharacterLocation
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("failed to parse character location response: %w", err)
	}
	return &record, nil
}

func postJSON(client *http.Client, url string, req interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
