// Package mqtt defines how generation results leave the process over MQTT.
// The paho implementation lives in infra/mqtt.
package mqtt
