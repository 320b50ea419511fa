package mqtt

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"os"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	coremqtt "github.com/kilianp07/teamday/core/mqtt"
	"github.com/kilianp07/teamday/core/model"
)

// helper to generate self-signed cert
func generateCert(t *testing.T) (certFile, keyFile, caFile string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("gen key: %v", err)
	}
	tmpl := x509.Certificate{SerialNumber: big.NewInt(1), Subject: pkix.Name{CommonName: "test"}, NotBefore: time.Now(), NotAfter: time.Now().Add(time.Hour)}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	if err != nil {
		t.Fatalf("create cert: %v", err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	dir := t.TempDir()
	certFile = dir + "/cert.pem"
	keyFile = dir + "/key.pem"
	caFile = dir + "/ca.pem"
	for path, data := range map[string][]byte{certFile: certPEM, keyFile: keyPEM, caFile: certPEM} {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return
}

func withMockClient(t *testing.T, mc *mockClient) {
	t.Helper()
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() {
		newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) }
	})
}

func testPlan() *model.Plan {
	return &model.Plan{
		ID:       "plan-1",
		Entries:  []model.ScheduleEntry{{StartTime: "11:00", EndTime: "11:05", Participants: []string{"A", "B"}}},
		Overview: []model.PersonAgenda{{Name: "A", Lines: []string{"11:00–11:05: B"}}},
		Warnings: []string{},
	}
}

type recorder struct {
	ids []string
	oks []bool
}

func (r *recorder) RecordPublish(id string, ok bool) error {
	r.ids = append(r.ids, id)
	r.oks = append(r.oks, ok)
	return nil
}

func TestLoadTLSConfig(t *testing.T) {
	cert, key, ca := generateCert(t)
	cfg := Config{UseTLS: true, ClientCert: cert, ClientKey: key, CABundle: ca}
	tlsCfg, err := cfg.LoadTLSConfig()
	if err != nil {
		t.Fatalf("load tls: %v", err)
	}
	if len(tlsCfg.Certificates) == 0 {
		t.Fatalf("no certs loaded")
	}
	if tlsCfg.RootCAs == nil {
		t.Fatalf("no root CAs")
	}
	if _, err := (Config{UseTLS: true}).LoadTLSConfig(); err == nil {
		t.Fatalf("expected error for missing files")
	}
}

func TestLoadTLSConfigEmptyCABundle(t *testing.T) {
	cert, key, ca := generateCert(t)
	if err := os.WriteFile(ca, []byte("not a certificate\n"), 0o644); err != nil {
		t.Fatalf("write ca: %v", err)
	}
	cfg := Config{UseTLS: true, ClientCert: cert, ClientKey: key, CABundle: ca}
	if _, err := cfg.LoadTLSConfig(); err == nil {
		t.Fatalf("expected error for ca bundle without certificates")
	}
}

func TestNewClientOptionsAuth(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "tcp://localhost:1883", ClientID: "id", Username: "u", Password: "p"})
	if err != nil {
		t.Fatalf("opts: %v", err)
	}
	if opts.Username != "u" || opts.Password != "p" {
		t.Fatalf("auth not set")
	}
	if _, err := NewClientOptions(Config{}); err == nil {
		t.Fatalf("expected missing broker error")
	}
}

func TestPublishPlan(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	rec := &recorder{}
	pub, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id", QoS: 1, Retain: true}, rec)
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	pub.now = func() time.Time { return time.UnixMilli(42) }

	if err := pub.PublishPlan(context.Background(), testPlan()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(mc.published) != 1 {
		t.Fatalf("expected one publish, got %d", len(mc.published))
	}
	got := mc.published[0]
	if got.topic != DefaultTopic || got.qos != 1 || !got.retained {
		t.Fatalf("unexpected publish options %+v", got)
	}
	var msg PlanMessage
	if err := json.Unmarshal(got.payload, &msg); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if msg.PlanID != "plan-1" || msg.PublishedAt != 42 || len(msg.Entries) != 1 || msg.Entries[0].StartTime != "11:00" {
		t.Fatalf("unexpected payload %+v", msg)
	}
	if len(rec.oks) != 1 || !rec.oks[0] || rec.ids[0] != "plan-1" {
		t.Fatalf("publish not recorded: %+v", rec)
	}
}

func TestLWTConfigured(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	cfg := Config{Broker: "tcp://localhost:1883", ClientID: "id", LWTTopic: "lwt", LWTPayload: "bye", LWTQoS: 1}
	pub, err := NewPahoPublisher(cfg, nil)
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	if !mc.opts.WillEnabled {
		t.Fatalf("will not enabled")
	}
	if mc.opts.WillTopic != "lwt" || string(mc.opts.WillPayload) != "bye" {
		t.Fatalf("will options incorrect")
	}
	pub.Close()
	if len(mc.published) != 0 {
		t.Fatalf("unexpected publish on disconnect")
	}
	if !mc.disconnected {
		t.Fatalf("close did not disconnect")
	}
}

func TestRetryLogic(t *testing.T) {
	mc := &mockClient{publishErrs: []error{fmt.Errorf("net fail"), nil}}
	withMockClient(t, mc)
	pub, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id", Topic: "plans", MaxRetries: 1, BackoffMS: 1}, nil)
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	if err := pub.PublishPlan(context.Background(), testPlan()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(mc.published) != 2 {
		t.Fatalf("expected retries")
	}
	if mc.published[1].topic != "plans" {
		t.Fatalf("configured topic not used")
	}
}

func TestPublishFailureRecorded(t *testing.T) {
	fail := fmt.Errorf("net fail")
	mc := &mockClient{publishErrs: []error{fail, fail}}
	withMockClient(t, mc)
	rec := &recorder{}
	pub, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id", MaxRetries: 1, BackoffMS: 1}, rec)
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	err = pub.PublishPlan(context.Background(), testPlan())
	if !errors.Is(err, fail) {
		t.Fatalf("expected wrapped publish error, got %v", err)
	}
	if len(rec.oks) != 1 || rec.oks[0] {
		t.Fatalf("failure not recorded: %+v", rec)
	}
}

func TestPublishNotConnected(t *testing.T) {
	mc := &mockClient{offline: true}
	withMockClient(t, mc)
	pub, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id"}, nil)
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	if err := pub.PublishPlan(context.Background(), testPlan()); !errors.Is(err, coremqtt.ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if err := pub.PublishPlan(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil plan")
	}
}

func TestPublishCanceledDuringBackoff(t *testing.T) {
	mc := &mockClient{publishErrs: []error{fmt.Errorf("net fail")}}
	withMockClient(t, mc)
	pub, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id", MaxRetries: 3, BackoffMS: 10_000}, nil)
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = pub.PublishPlan(ctx, testPlan())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if len(mc.published) != 1 {
		t.Fatalf("expected a single attempt, got %d", len(mc.published))
	}
}

func TestMockPublisher(t *testing.T) {
	var pub Publisher = NewMockPublisher()
	m := pub.(*MockPublisher)
	if err := pub.PublishPlan(context.Background(), testPlan()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	m.Fail = true
	if err := pub.PublishPlan(context.Background(), testPlan()); err == nil {
		t.Fatalf("expected failure")
	}
	pub.Close()
	if m.Published() != 1 || !m.Closed() {
		t.Fatalf("unexpected mock state")
	}
}

type publishCall struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// mockClient implements pahoClient for tests
type mockClient struct {
	opts         *paho.ClientOptions
	published    []publishCall
	publishErrs  []error
	offline      bool
	disconnected bool
}

func (m *mockClient) IsConnected() bool { return !m.offline }
func (m *mockClient) Connect() paho.Token {
	if m.opts != nil && m.opts.OnConnect != nil {
		m.opts.OnConnect(nil)
	}
	return &dummyToken{}
}
func (m *mockClient) Disconnect(uint) { m.disconnected = true }
func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	b, _ := payload.([]byte)
	m.published = append(m.published, publishCall{topic: topic, qos: qos, retained: retained, payload: b})
	if len(m.publishErrs) > 0 {
		err := m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
		return &dummyToken{err: err}
	}
	return &dummyToken{}
}

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }
