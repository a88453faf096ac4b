package k8s

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/util/retry"
)

// ManagedByLabel marks secrets written by the bootstrap tool.
const ManagedByLabel = "app.kubernetes.io/managed-by"

const managedByValue = "langflow-bootstrap"

// SecretSink upserts env entries as keys of a single Opaque secret.
type SecretSink struct {
	client    kubernetes.Interface
	namespace string
	name      string
}

// NewSecretSink creates a sink writing to namespace/name.
func NewSecretSink(client kubernetes.Interface, namespace, name string) *SecretSink {
	return &SecretSink{client: client, namespace: namespace, name: name}
}

// String returns namespace/name.
func (s *SecretSink) String() string {
	return s.namespace + "/" + s.name
}

// Set creates the secret if missing and otherwise replaces the one key,
// leaving other keys untouched. Update conflicts are retried.
func (s *SecretSink) Set(ctx context.Context, key, value string) error {
	secrets := s.client.CoreV1().Secrets(s.namespace)

	err := retry.RetryOnConflict(retry.DefaultRetry, func() error {
		secret, err := secrets.Get(ctx, s.name, metav1.GetOptions{})
		if apierrors.IsNotFound(err) {
			_, err = secrets.Create(ctx, &corev1.Secret{
				ObjectMeta: metav1.ObjectMeta{
					Name:      s.name,
					Namespace: s.namespace,
					Labels:    map[string]string{ManagedByLabel: managedByValue},
				},
				Type: corev1.SecretTypeOpaque,
				Data: map[string][]byte{key: []byte(value)},
			}, metav1.CreateOptions{})
			return err
		}
		if err != nil {
			return err
		}

		if secret.Data == nil {
			secret.Data = make(map[string][]byte)
		}
		secret.Data[key] = []byte(value)
		_, err = secrets.Update(ctx, secret, metav1.UpdateOptions{})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to set %s in secret %s: %w", key, s, err)
	}
	return nil
}

// Get returns the value stored under key.
func (s *SecretSink) Get(ctx context.Context, key string) (string, bool, error) {
	secret, err := s.client.CoreV1().Secrets(s.namespace).Get(ctx, s.name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get secret %s: %w", s, err)
	}
	v, ok := secret.Data[key]
	return string(v), ok, nil
}
