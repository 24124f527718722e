package operations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"downtimecli/pkg/contracts"
)

// PipelineManifest is the JSON record of one run: which steps ran, how
// long they took and which files they produced.
type PipelineManifest struct {
	ID         string     `json:"id"`
	Stage      string     `json:"stage"`
	Version    string     `json:"version"`
	// DataFormat identifies the column layout of the written tables.
	DataFormat string     `json:"data_format"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`

	// Available data tracking
	AvailableData map[string]*DataInfo `json:"available_data"`

	// Execution tracking
	CompletedStages []StageExecution `json:"completed_stages"`

	Status string `json:"status"` // "pending", "running", "completed", "failed"
	Error  string `json:"error,omitempty"`
}

// DataInfo describes one file written during the run.
type DataInfo struct {
	Type      string    `json:"type"`
	Location  string    `json:"location"`
	Rows      int       `json:"rows"`
	TotalSize int64     `json:"total_size"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
}

// StageExecution tracks the execution of a single stage
type StageExecution struct {
	StageID     string                 `json:"stage_id"`
	StageName   string                 `json:"stage_name"`
	StartTime   time.Time              `json:"start_time"`
	EndTime     time.Time              `json:"end_time"`
	Duration    string                 `json:"duration"`
	DurationSec float64                `json:"duration_sec"`
	Status      string                 `json:"status"` // "running", "completed", "failed"
	OutputData  []string               `json:"output_data"`
	Error       string                 `json:"error,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// NewPipelineManifest creates a new pipeline manifest
func NewPipelineManifest(runID, stage string) *PipelineManifest {
	return &PipelineManifest{
		ID:              runID,
		Stage:           stage,
		Version:         contracts.Version,
		DataFormat:      contracts.DataFormatVersion,
		StartTime:       time.Now(),
		AvailableData:   make(map[string]*DataInfo),
		CompletedStages: []StageExecution{},
		Status:          "pending",
	}
}

// HasData checks if a specific type of data is available
func (m *PipelineManifest) HasData(dataType string) bool {
	_, exists := m.AvailableData[dataType]
	return exists
}

// GetData returns information about available data
func (m *PipelineManifest) GetData(dataType string) (*DataInfo, bool) {
	data, exists := m.AvailableData[dataType]
	return data, exists
}

// AddData records a file produced by stageID. The size is read from disk.
func (m *PipelineManifest) AddData(stageID string, out DataOutput, rows int) {
	info := &DataInfo{
		Type:      out.Type,
		Location:  out.Location,
		Rows:      rows,
		CreatedAt: time.Now(),
		CreatedBy: stageID,
	}
	if st, err := os.Stat(out.Location); err == nil {
		info.TotalSize = st.Size()
	}
	m.AvailableData[out.Type] = info
}

// RecordStageStart records the start of a stage execution
func (m *PipelineManifest) RecordStageStart(stageID, stageName string) {
	m.Status = "running"
	m.CompletedStages = append(m.CompletedStages, StageExecution{
		StageID:   stageID,
		StageName: stageName,
		StartTime: time.Now(),
		Status:    "running",
	})
}

// RecordStageCompletion records the completion of a stage
func (m *PipelineManifest) RecordStageCompletion(stageID string, outputData []string, metadata map[string]interface{}) {
	if stage := m.find(stageID); stage != nil {
		stage.finish("completed")
		stage.OutputData = outputData
		if len(metadata) > 0 {
			stage.Metadata = metadata
		}
	}
}

// RecordStageFailure records a stage failure and fails the run.
func (m *PipelineManifest) RecordStageFailure(stageID string, err error) {
	if stage := m.find(stageID); stage != nil {
		stage.finish("failed")
		stage.Error = err.Error()
	}
	m.Fail(fmt.Errorf("stage %s failed: %w", stageID, err))
}

// IsStageCompleted checks if a stage has been completed
func (m *PipelineManifest) IsStageCompleted(stageID string) bool {
	stage := m.find(stageID)
	return stage != nil && stage.Status == "completed"
}

// Complete marks the run as completed.
func (m *PipelineManifest) Complete() {
	now := time.Now()
	m.EndTime = &now
	m.Status = "completed"
}

// Fail marks the run as failed.
func (m *PipelineManifest) Fail(err error) {
	now := time.Now()
	m.EndTime = &now
	m.Status = "failed"
	if m.Error == "" && err != nil {
		m.Error = err.Error()
	}
}

func (m *PipelineManifest) find(stageID string) *StageExecution {
	for i := len(m.CompletedStages) - 1; i >= 0; i-- {
		if m.CompletedStages[i].StageID == stageID {
			return &m.CompletedStages[i]
		}
	}
	return nil
}

func (s *StageExecution) finish(status string) {
	s.EndTime = time.Now()
	d := s.EndTime.Sub(s.StartTime)
	s.Duration = d.String()
	s.DurationSec = d.Seconds()
	s.Status = status
}

// SaveToFile saves the manifest to a JSON file, creating its directory.
func (m *PipelineManifest) SaveToFile(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}
	return nil
}
