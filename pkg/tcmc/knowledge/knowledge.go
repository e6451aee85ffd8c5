// Package knowledge wraps the knowledge-graph endpoints of the TCMC admin API.
package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tcmc-hq/tcmc-client/pkg/httpclient"
	"github.com/tcmc-hq/tcmc-client/pkg/tcmc"
)

const basePath = "/tcmc/knowledge"

// Node is a knowledge-graph node.
type Node struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	CreatedTime string `json:"createdTime,omitempty" yaml:"created_time,omitempty"`
	UpdatedTime string `json:"updatedTime,omitempty" yaml:"updated_time,omitempty"`
}

// NodeCreateReq is the payload of AddNode.
type NodeCreateReq struct {
	Name string `json:"name"`
}

// NodeUpdateReq renames a node.
type NodeUpdateReq struct {
	ID      int64  `json:"id"`
	NewName string `json:"newName"`
}

// Relationship is a typed edge between two named nodes.
type Relationship struct {
	SourceName string `json:"sourceName" yaml:"source"`
	TargetName string `json:"targetName" yaml:"target"`
	Type       string `json:"type" yaml:"type"`
}

// Client calls the knowledge endpoints.
type Client struct {
	req tcmc.Requester
}

// NewClient builds a knowledge client on top of a dispatcher.
func NewClient(req tcmc.Requester) *Client {
	return &Client{req: req}
}

// GetAllNodes lists every node.
func (c *Client) GetAllNodes(ctx context.Context) ([]Node, error) {
	return tcmc.Call[[]Node](ctx, c.req.Get, httpclient.Descriptor{URL: basePath + "/node/list"})
}

// GetNodeByID fetches one node by id.
func (c *Client) GetNodeByID(ctx context.Context, id int64) (Node, error) {
	return tcmc.Call[Node](ctx, c.req.Get, httpclient.Descriptor{
		URL:    basePath + "/node/getById",
		Params: map[string]any{"id": id},
	})
}

// GetNodeByName fetches one node by exact name.
func (c *Client) GetNodeByName(ctx context.Context, name string) (Node, error) {
	return tcmc.Call[Node](ctx, c.req.Get, httpclient.Descriptor{
		URL:    basePath + "/node/getByName",
		Params: map[string]any{"name": name},
	})
}

// SearchNodes returns nodes whose name matches the fragment.
func (c *Client) SearchNodes(ctx context.Context, name string) ([]Node, error) {
	return tcmc.Call[[]Node](ctx, c.req.Get, httpclient.Descriptor{
		URL:    basePath + "/node/search",
		Params: map[string]any{"name": name},
	})
}

// AddNode creates a node.
func (c *Client) AddNode(ctx context.Context, in NodeCreateReq) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("node name is required")
	}
	return c.exec(ctx, c.req.Post, httpclient.Descriptor{URL: basePath + "/node/add", Data: in})
}

// UpdateNode renames a node.
func (c *Client) UpdateNode(ctx context.Context, in NodeUpdateReq) error {
	if strings.TrimSpace(in.NewName) == "" {
		return fmt.Errorf("new node name is required")
	}
	return c.exec(ctx, c.req.Put, httpclient.Descriptor{URL: basePath + "/node/update", Data: in})
}

// DeleteNode removes a node by id.
func (c *Client) DeleteNode(ctx context.Context, id int64) error {
	return c.exec(ctx, c.req.Get, httpclient.Descriptor{
		URL:    basePath + "/node/delete",
		Params: map[string]any{"id": id},
	})
}

// DeleteAllNodes wipes the graph.
func (c *Client) DeleteAllNodes(ctx context.Context) error {
	return c.exec(ctx, c.req.Get, httpclient.Descriptor{URL: basePath + "/node/deleteAll"})
}

// GetAllRelationships lists every edge.
func (c *Client) GetAllRelationships(ctx context.Context) ([]Relationship, error) {
	return tcmc.Call[[]Relationship](ctx, c.req.Get, httpclient.Descriptor{URL: basePath + "/relationship/list"})
}

// GetOutgoingRelationships lists edges leaving the named node.
func (c *Client) GetOutgoingRelationships(ctx context.Context, name string) ([]Relationship, error) {
	return tcmc.Call[[]Relationship](ctx, c.req.Get, httpclient.Descriptor{
		URL:    basePath + "/relationship/outgoing",
		Params: map[string]any{"name": name},
	})
}

// GetIncomingRelationships lists edges entering the named node.
func (c *Client) GetIncomingRelationships(ctx context.Context, name string) ([]Relationship, error) {
	return tcmc.Call[[]Relationship](ctx, c.req.Get, httpclient.Descriptor{
		URL:    basePath + "/relationship/incoming",
		Params: map[string]any{"name": name},
	})
}

// GetRelationshipType returns the edge type between two nodes.
func (c *Client) GetRelationshipType(ctx context.Context, sourceName, targetName string) (string, error) {
	return tcmc.Call[string](ctx, c.req.Get, httpclient.Descriptor{
		URL:    basePath + "/relationship/getType",
		Params: map[string]any{"sourceName": sourceName, "targetName": targetName},
	})
}

// AddRelationship creates an edge.
func (c *Client) AddRelationship(ctx context.Context, rel Relationship) error {
	if rel.SourceName == "" || rel.TargetName == "" || rel.Type == "" {
		return fmt.Errorf("relationship requires source, target and type")
	}
	return c.exec(ctx, c.req.Post, httpclient.Descriptor{URL: basePath + "/relationship/add", Data: rel})
}

// DeleteRelationship removes one typed edge.
func (c *Client) DeleteRelationship(ctx context.Context, sourceName, targetName, typ string) error {
	return c.exec(ctx, c.req.Get, httpclient.Descriptor{
		URL:    basePath + "/relationship/delete",
		Params: map[string]any{"sourceName": sourceName, "targetName": targetName, "type": typ},
	})
}

// DeleteAllRelationshipsBetweenNodes removes every edge between two nodes.
func (c *Client) DeleteAllRelationshipsBetweenNodes(ctx context.Context, sourceName, targetName string) error {
	return c.exec(ctx, c.req.Get, httpclient.Descriptor{
		URL:    basePath + "/relationship/deleteBetween",
		Params: map[string]any{"sourceName": sourceName, "targetName": targetName},
	})
}

// DeleteAllRelationshipsOfNode removes every edge touching the named node.
func (c *Client) DeleteAllRelationshipsOfNode(ctx context.Context, name string) error {
	return c.exec(ctx, c.req.Get, httpclient.Descriptor{
		URL:    basePath + "/relationship/deleteForNode",
		Params: map[string]any{"name": name},
	})
}

// Graph is a full snapshot of nodes and edges.
type Graph struct {
	Nodes         []Node         `json:"nodes" yaml:"nodes"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
}

// Snapshot fetches all nodes and relationships.
func (c *Client) Snapshot(ctx context.Context) (Graph, error) {
	nodes, err := c.GetAllNodes(ctx)
	if err != nil {
		return Graph{}, fmt.Errorf("list nodes: %w", err)
	}
	rels, err := c.GetAllRelationships(ctx)
	if err != nil {
		return Graph{}, fmt.Errorf("list relationships: %w", err)
	}
	return Graph{Nodes: nodes, Relationships: rels}, nil
}

func (c *Client) exec(ctx context.Context, fn func(context.Context, httpclient.Descriptor) (httpclient.Body, error), desc httpclient.Descriptor) error {
	_, err := tcmc.Call[json.RawMessage](ctx, fn, desc)
	return err
}
