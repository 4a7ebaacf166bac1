/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config loads and validates the gateway's JSON configuration
// file: a global user-agent plus one or more endpoints, each binding a
// Postfix-facing protocol mode to an HTTP/REST target.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	liberr "github.com/sabouaram/postfix-rest-gateway/errors"
)

const (
	ErrorReadFile liberr.CodeError = iota + liberr.MinPkgConfig
	ErrorDecodeFile
	ErrorValidation
)

func init() {
	if liberr.ExistInMapMessage(ErrorReadFile) {
		panic(fmt.Errorf("error code collision with package config"))
	}
	liberr.RegisterIdFctMessage(ErrorReadFile, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorReadFile:
		return "error reading configuration file"
	case ErrorDecodeFile:
		return "error decoding configuration file as JSON"
	case ErrorValidation:
		return "configuration validation failed"
	}

	return liberr.NullMessage
}

// Mode identifies which Postfix wire protocol an endpoint speaks.
type Mode string

const (
	ModeTCPLookup  Mode = "tcp-lookup"
	ModeSocketmap  Mode = "socketmap-lookup"
	ModePolicy     Mode = "policy"

	defaultUserAgent = "Postfix REST API Connector"
)

func (m Mode) valid() bool {
	switch m {
	case ModeTCPLookup, ModeSocketmap, ModePolicy:
		return true
	default:
		return false
	}
}

// Endpoint is the typed, validated view of one configured listener.
// It is immutable once returned from Load.
type Endpoint struct {
	Name           string
	Mode           Mode
	Target         *url.URL
	BindAddress    string
	BindPort       int
	AuthToken      string
	RequestTimeout time.Duration
}

// Bindable returns the "address:port" string this endpoint listens on.
func (e Endpoint) Bindable() string {
	return fmt.Sprintf("%s:%d", e.BindAddress, e.BindPort)
}

// Config is the immutable set of endpoints plus global settings, as
// decoded and validated from the JSON configuration file.
type Config struct {
	UserAgent string
	Endpoints []Endpoint
}

// rawEndpoint mirrors the on-disk JSON shape for one endpoint (§6.1).
type rawEndpoint struct {
	Name           string `json:"name"`
	Mode           string `json:"mode"`
	Target         string `json:"target"`
	BindAddress    string `json:"bind-address"`
	BindPort       int    `json:"bind-port"`
	AuthToken      string `json:"auth-token"`
	RequestTimeout int    `json:"request-timeout"`
}

// rawConfig mirrors the on-disk JSON shape of the top-level document.
type rawConfig struct {
	UserAgent string        `json:"user-agent"`
	Endpoints []rawEndpoint `json:"endpoints"`
}

// Load reads and validates the configuration file at path. It fails
// fast with a descriptive liberr.Error naming the offending endpoint.
func Load(path string) (*Config, liberr.Error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrorReadFile.Error(err)
	}

	var raw rawConfig
	if err = json.Unmarshal(b, &raw); err != nil {
		return nil, ErrorDecodeFile.Error(err)
	}

	if len(raw.Endpoints) < 1 {
		return nil, ErrorValidation.Error(fmt.Errorf("config: at least one endpoint is required"))
	}

	cfg := &Config{
		UserAgent: raw.UserAgent,
		Endpoints: make([]Endpoint, 0, len(raw.Endpoints)),
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	seen := make(map[string]struct{}, len(raw.Endpoints))

	for _, r := range raw.Endpoints {
		ep, e := validateEndpoint(r)
		if e != nil {
			return nil, e
		}

		if _, ok := seen[ep.Bindable()]; ok {
			return nil, ErrorValidation.Error(fmt.Errorf("config: duplicate bind address %q for endpoint %q", ep.Bindable(), ep.Name))
		}
		seen[ep.Bindable()] = struct{}{}

		cfg.Endpoints = append(cfg.Endpoints, ep)
	}

	return cfg, nil
}

func validateEndpoint(r rawEndpoint) (Endpoint, liberr.Error) {
	if r.Name == "" {
		return Endpoint{}, ErrorValidation.Error(fmt.Errorf("config: endpoint has no name"))
	}

	mode := Mode(r.Mode)
	if !mode.valid() {
		return Endpoint{}, ErrorValidation.Error(fmt.Errorf("config: endpoint %q has invalid mode %q", r.Name, r.Mode))
	}

	if r.BindPort < 1 || r.BindPort > 65535 {
		return Endpoint{}, ErrorValidation.Error(fmt.Errorf("config: endpoint %q has invalid bind-port %d", r.Name, r.BindPort))
	}

	if r.RequestTimeout <= 0 {
		return Endpoint{}, ErrorValidation.Error(fmt.Errorf("config: endpoint %q has invalid request-timeout %d", r.Name, r.RequestTimeout))
	}

	u, err := url.Parse(r.Target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return Endpoint{}, ErrorValidation.Error(fmt.Errorf("config: endpoint %q has invalid target %q", r.Name, r.Target))
	}

	return Endpoint{
		Name:           r.Name,
		Mode:           mode,
		Target:         u,
		BindAddress:    r.BindAddress,
		BindPort:       r.BindPort,
		AuthToken:      r.AuthToken,
		RequestTimeout: time.Duration(r.RequestTimeout) * time.Millisecond,
	}, nil
}
