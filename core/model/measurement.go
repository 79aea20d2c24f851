package model

import "time"

// EntityType classifies what a sample was measured on.
type EntityType string

const (
	EntityTypeInvalid EntityType = ""
	EntityTypeTariff  EntityType = "ENTITY_TYPE_TARIFF"
	EntityTypeZone    EntityType = "ENTITY_TYPE_ZONE"
	EntityTypeDevice  EntityType = "ENTITY_TYPE_DEVICE"
	EntityTypePhase   EntityType = "ENTITY_TYPE_PHASE"
)

// SampleType identifies the measured quantity.
type SampleType string

const (
	SampleTypeInvalid                SampleType = ""
	SampleTypeElectricityConsumption SampleType = "SAMPLE_TYPE_ELECTRICITY_CONSUMPTION"
	SampleTypeElectricityProduction  SampleType = "SAMPLE_TYPE_ELECTRICITY_PRODUCTION"
	SampleTypeEnergy                 SampleType = "SAMPLE_TYPE_ENERGY"
	SampleTypeEnergyCost             SampleType = "SAMPLE_TYPE_ENERGY_COST"
	SampleTypeTime                   SampleType = "SAMPLE_TYPE_TIME"
)

// MetricType tells consumers whether a sample value is cumulative or a
// point-in-time reading.
type MetricType string

const (
	MetricTypeInvalid MetricType = ""
	MetricTypeCounter MetricType = "METRIC_TYPE_COUNTER"
	MetricTypeGauge   MetricType = "METRIC_TYPE_GAUGE"
)

// Sample is a single measured value.
type Sample struct {
	EntityType EntityType `json:"EntityType" yaml:"entityType"`
	EntityName string     `json:"EntityName" yaml:"entityName"`
	SampleType SampleType `json:"SampleType" yaml:"sampleType"`
	SampleName string     `json:"SampleName" yaml:"sampleName"`
	MetricType MetricType `json:"MetricType" yaml:"metricType"`
	Value      float64    `json:"Value" yaml:"value"`
}

// Measurement groups the samples taken during one planning run. It is the
// payload published to the message bus and written to the measurement sink.
type Measurement struct {
	ID             string    `json:"ID" yaml:"id"`
	Source         string    `json:"Source" yaml:"source"`
	Location       string    `json:"Location" yaml:"location"`
	Samples        []Sample  `json:"Samples" yaml:"samples"`
	MeasuredAtTime time.Time `json:"MeasuredAtTime" yaml:"measuredAtTime"`
}
