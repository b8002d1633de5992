package domain

import (
	"errors"
	"fmt"
)

var ErrUnknownTaskType = errors.New("unknown task type")

// TaskType is the kind of task a model is designed to perform.
//
// The set of task types is closed; values other than the constants below are
// rejected by AsTaskType and by the schema lookups.
type TaskType string

const (
	TaskTxt2Embed         TaskType = "txt2embed"
	TaskTxt2Txt           TaskType = "txt2txt"
	TaskTxt2Img           TaskType = "txt2img"
	TaskImg2Txt           TaskType = "img2txt"
	TaskImg2Img           TaskType = "img2img"
	TaskAudio2Txt         TaskType = "audio2txt"
	TaskTxt2Audio         TaskType = "txt2audio"
	TaskClassification    TaskType = "classification"
	TaskObjectDetection   TaskType = "object_detection"
	TaskQuestionAnswering TaskType = "question_answering"
)

// TaskTypes lists every known task type.
func TaskTypes() []TaskType {
	return []TaskType{
		TaskTxt2Embed, TaskTxt2Txt, TaskTxt2Img, TaskImg2Txt, TaskImg2Img,
		TaskAudio2Txt, TaskTxt2Audio, TaskClassification, TaskObjectDetection,
		TaskQuestionAnswering,
	}
}

// AsTaskType parses s as TaskType.
func AsTaskType(s string) (TaskType, error) {
	switch t := TaskType(s); t {
	case TaskTxt2Embed, TaskTxt2Txt, TaskTxt2Img, TaskImg2Txt, TaskImg2Img,
		TaskAudio2Txt, TaskTxt2Audio, TaskClassification, TaskObjectDetection,
		TaskQuestionAnswering:
		return t, nil
	default:
		return t, fmt.Errorf("%w: %s", ErrUnknownTaskType, s)
	}
}

func (t TaskType) String() string {
	return string(t)
}

// Schema is a JSON-Schema-shaped document describing the input or output
// contract of a task type.
type Schema struct {
	Type       string              `json:"type" yaml:"type"`
	Properties map[string]Property `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required   []string            `json:"required,omitempty" yaml:"required,omitempty"`
}

type Property struct {
	Type       string              `json:"type" yaml:"type"`
	Items      *Property           `json:"items,omitempty" yaml:"items,omitempty"`
	Properties map[string]Property `json:"properties,omitempty" yaml:"properties,omitempty"`
	Default    any                 `json:"default,omitempty" yaml:"default,omitempty"`
}

// InputSchema is the request contract for models of this task type.
//
// It fails only when t is outside the closed task type set, which
// AsTaskType at the type boundary should already have prevented.
func (t TaskType) InputSchema() (Schema, error) {
	switch t {
	case TaskTxt2Embed:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"text": {Type: "string"},
			},
			Required: []string{"text"},
		}, nil
	case TaskTxt2Txt:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"prompt":     {Type: "string"},
				"max_tokens": {Type: "integer", Default: 100},
			},
			Required: []string{"prompt"},
		}, nil
	case TaskTxt2Img:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"prompt":          {Type: "string"},
				"negative_prompt": {Type: "string"},
				"width":           {Type: "integer", Default: 512},
				"height":          {Type: "integer", Default: 512},
			},
			Required: []string{"prompt", "negative_prompt"},
		}, nil
	case TaskImg2Txt:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"image": {Type: "string"},
			},
			Required: []string{"image"},
		}, nil
	case TaskImg2Img:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"image":           {Type: "string"},
				"prompt":          {Type: "string"},
				"negative_prompt": {Type: "string"},
				"strength":        {Type: "number", Default: 0.8},
				"width":           {Type: "integer", Default: 512},
				"height":          {Type: "integer", Default: 512},
			},
			Required: []string{"image", "prompt", "negative_prompt"},
		}, nil
	case TaskAudio2Txt:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"audio":    {Type: "string"},
				"language": {Type: "string"},
			},
			Required: []string{"audio"},
		}, nil
	case TaskTxt2Audio:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"text":  {Type: "string"},
				"voice": {Type: "string"},
				"speed": {Type: "number", Default: 1.0},
			},
			Required: []string{"text"},
		}, nil
	case TaskClassification:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"input":  {Type: "string"},
				"labels": {Type: "array", Items: &Property{Type: "string"}},
			},
			Required: []string{"input"},
		}, nil
	case TaskObjectDetection:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"image":                {Type: "string"},
				"confidence_threshold": {Type: "number", Default: 0.5},
			},
			Required: []string{"image"},
		}, nil
	case TaskQuestionAnswering:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"question": {Type: "string"},
				"context":  {Type: "string"},
			},
			Required: []string{"question", "context"},
		}, nil
	default:
		return Schema{}, fmt.Errorf("%w: %s", ErrUnknownTaskType, t)
	}
}

// OutputSchema is the response contract for models of this task type.
func (t TaskType) OutputSchema() (Schema, error) {
	switch t {
	case TaskTxt2Embed:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"embedding": {Type: "array", Items: &Property{Type: "number"}},
			},
		}, nil
	case TaskTxt2Txt:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"text": {Type: "string"},
			},
		}, nil
	case TaskTxt2Img:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"image_uri": {Type: "string"},
			},
		}, nil
	case TaskImg2Txt:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"text": {Type: "string"},
			},
		}, nil
	case TaskImg2Img:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"image_uri": {Type: "string"},
			},
		}, nil
	case TaskAudio2Txt:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"text":     {Type: "string"},
				"language": {Type: "string"},
			},
		}, nil
	case TaskTxt2Audio:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"audio_uri": {Type: "string"},
			},
		}, nil
	case TaskClassification:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"label": {Type: "string"},
				"score": {Type: "number"},
				"scores": {
					Type: "array",
					Items: &Property{
						Type: "object",
						Properties: map[string]Property{
							"label": {Type: "string"},
							"score": {Type: "number"},
						},
					},
				},
			},
		}, nil
	case TaskObjectDetection:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"detections": {
					Type: "array",
					Items: &Property{
						Type: "object",
						Properties: map[string]Property{
							"label": {Type: "string"},
							"score": {Type: "number"},
							"bbox": {
								Type: "object",
								Properties: map[string]Property{
									"x":      {Type: "number"},
									"y":      {Type: "number"},
									"width":  {Type: "number"},
									"height": {Type: "number"},
								},
							},
						},
					},
				},
			},
		}, nil
	case TaskQuestionAnswering:
		return Schema{
			Type: "object",
			Properties: map[string]Property{
				"answer": {Type: "string"},
				"score":  {Type: "number"},
				"start":  {Type: "integer"},
				"end":    {Type: "integer"},
			},
		}, nil
	default:
		return Schema{}, fmt.Errorf("%w: %s", ErrUnknownTaskType, t)
	}
}
