// File: types.go
package main

import "cgrCore/internal/chem"

// Session holds a built condensed graph between requests
type Session struct {
	Reaction *chem.Reaction // 输入反应
	CGR      *chem.Graph
	Mode     string
}

// CGRRequest is the JSON body for /api/cgr
type CGRRequest struct {
	RXN  string `json:"rxn"`            // rxnfile 文本
	Mode string `json:"mode,omitempty"` // 覆盖配置里的 cgr_type
}

// CGRResponse is returned by /api/cgr
type CGRResponse struct {
	UUID    string      `json:"uuid"`
	Mode    string      `json:"mode"`
	Graph   *chem.Graph `json:"graph"`
	Image   string      `json:"image"`   // Base64 PNG
	Centers []int       `json:"centers"` // 反应中心原子
}

// SessionRequest is the JSON body for /api/cgr/decompose
type SessionRequest struct {
	UUID string `json:"uuid"`
}

// DecomposeResponse is returned by /api/cgr/decompose
type DecomposeResponse struct {
	Substrates []string          `json:"substrates"` // MOL blocks
	Products   []string          `json:"products"`
	Meta       map[string]string `json:"meta,omitempty"`
}

// SearchRequest is the JSON body for /api/reactor/search. SDF or Mol, when
// set, is searched instead of the session's condensed graph.
type SearchRequest struct {
	UUID  string `json:"uuid,omitempty"`
	Mol   string `json:"mol,omitempty"`
	SDF   string `json:"sdf,omitempty"` // 多条记录，逐条搜索
	Limit int    `json:"limit,omitempty"`
}

// SearchResponse is returned by /api/reactor/search
type SearchResponse struct {
	Templates  []int        `json:"templates"`
	Candidates []CandidateV `json:"candidates"`
	Sheet      string       `json:"sheet,omitempty"` // Base64 PNG of all candidates
}

// CandidateV is one patched and relocated candidate
type CandidateV struct {
	Target   int               `json:"target"` // 目标在请求中的序号
	Template int               `json:"template"`
	Meta     map[string]string `json:"meta,omitempty"`
	Graph    *chem.Graph       `json:"graph"`
}
