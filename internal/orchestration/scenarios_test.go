package orchestration

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/kubecloud/internal/config"
	"github.com/imamik/kubecloud/internal/provisioning"
	kctesting "github.com/imamik/kubecloud/internal/testing"
)

// reconcile runs the program for src against a fresh mock monitor.
func reconcile(src config.Source, opts ...Option) (*kctesting.Monitor, error) {
	mon := kctesting.NewMonitor()
	opts = append(opts, WithSource(src))
	err := mon.Run(NewReconciler(opts...).Program())
	return mon, err
}

// poolTypes is the standalone pool resource of each provider.
var poolTypes = map[config.Provider]string{
	config.ProviderAWS:   kctesting.TypeEKSManagedNodeGroup,
	config.ProviderGCP:   kctesting.TypeGKENodePool,
	config.ProviderAzure: kctesting.TypeAKSAgentPool,
}

// poolEquivalents counts the node pools a provider graph declares: the
// standalone pool resources plus, for topologies that fold the first pool
// into the cluster, one per cluster resource.
func poolEquivalents(mon *kctesting.Monitor, p config.Provider) int {
	top, err := Dispatch(p)
	Expect(err).NotTo(HaveOccurred())

	n := mon.Count(poolTypes[p])
	if top.FoldFirstPool {
		n += clusterResources(mon, p)
	}
	return n
}

func clusterResources(mon *kctesting.Monitor, p config.Provider) int {
	switch p {
	case config.ProviderAWS:
		return mon.Count(kctesting.TypeEKSCluster)
	case config.ProviderGCP:
		return mon.Count(kctesting.TypeGKECluster)
	case config.ProviderAzure:
		return mon.Count(kctesting.TypeAKSCluster)
	}
	return 0
}

func declaredCount(rec *provisioning.Recorder, provider, kind string) float64 {
	families, err := rec.Registry().Gather()
	Expect(err).NotTo(HaveOccurred())
	for _, mf := range families {
		if mf.GetName() != "kubecloud_resources_declared_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["provider"] == provider && labels["kind"] == kind {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

var _ = Describe("Program", func() {
	Context("AWS with defaults", func() {
		var mon *kctesting.Monitor

		BeforeEach(func() {
			var err error
			mon, err = reconcile(kctesting.NewConfigBuilder(config.ProviderAWS).Source())
			Expect(err).NotTo(HaveOccurred())
		})

		It("declares one VPC over the default range", func() {
			vpcs := mon.Resources(kctesting.TypeVPC)
			Expect(vpcs).To(HaveLen(1))
			Expect(kctesting.Prop(vpcs[0].Inputs, "cidrBlock").StringValue()).To(Equal("10.0.0.0/16"))
		})

		It("declares three public and three private subnets", func() {
			var cidrs []string
			for _, s := range mon.Resources(kctesting.TypeSubnet) {
				cidrs = append(cidrs, kctesting.Prop(s.Inputs, "cidrBlock").StringValue())
			}
			Expect(cidrs).To(ConsistOf(
				"10.0.1.0/24", "10.0.2.0/24", "10.0.3.0/24",
				"10.0.101.0/24", "10.0.102.0/24", "10.0.103.0/24",
			))
		})

		It("declares one NAT gateway", func() {
			Expect(mon.Count(kctesting.TypeNATGateway)).To(Equal(1))
		})

		It("folds the default pool into the EKS cluster", func() {
			clusters := mon.Resources(kctesting.TypeEKSCluster)
			Expect(clusters).To(HaveLen(1))
			in := clusters[0].Inputs
			Expect(kctesting.Prop(in, "instanceType").StringValue()).To(Equal("t3.medium"))
			Expect(kctesting.Prop(in, "minSize").NumberValue()).To(Equal(1.0))
			Expect(kctesting.Prop(in, "maxSize").NumberValue()).To(Equal(5.0))
			Expect(kctesting.Prop(in, "nodeRootVolumeSize").NumberValue()).To(Equal(20.0))
			Expect(mon.Count(kctesting.TypeEKSManagedNodeGroup)).To(BeZero())
		})
	})

	Context("GCP with defaults", func() {
		var mon *kctesting.Monitor

		BeforeEach(func() {
			var err error
			mon, err = reconcile(kctesting.NewConfigBuilder(config.ProviderGCP).Source())
			Expect(err).NotTo(HaveOccurred())
		})

		It("places a zonal cluster in zone b of the region", func() {
			clusters := mon.Resources(kctesting.TypeGKECluster)
			Expect(clusters).To(HaveLen(1))
			Expect(kctesting.Prop(clusters[0].Inputs, "location").StringValue()).To(Equal("europe-west1-b"))
		})

		It("declares the single pool explicitly", func() {
			Expect(mon.Count(kctesting.TypeGKENodePool)).To(Equal(1))
			Expect(kctesting.Prop(mon.Resources(kctesting.TypeGKECluster)[0].Inputs, "removeDefaultNodePool").BoolValue()).To(BeTrue())
		})
	})

	Context("Azure with a hyphenated pool name", func() {
		It("sanitizes the system pool name", func() {
			src := kctesting.NewConfigBuilder(config.ProviderAzure).
				WithNodePools(kctesting.Pool("primary-pool", 1, 3, 2)).
				Source()
			mon, err := reconcile(src)
			Expect(err).NotTo(HaveOccurred())

			clusters := mon.Resources(kctesting.TypeAKSCluster)
			Expect(clusters).To(HaveLen(1))
			profiles := kctesting.Objects(kctesting.Prop(clusters[0].Inputs, "agentPoolProfiles"))
			Expect(profiles).To(HaveLen(1))
			Expect(kctesting.Prop(profiles[0], "name").StringValue()).To(Equal("primarypool"))
			Expect(kctesting.Prop(profiles[0], "mode").StringValue()).To(Equal("System"))
		})
	})

	DescribeTable("declares exactly one pool equivalent per configured pool",
		func(p config.Provider, n int) {
			pools := make([]config.NodePoolConfig, 0, n)
			for i := range n {
				pools = append(pools, kctesting.Pool(fmt.Sprintf("pool-%d", i), 1, 3, 2))
			}
			mon, err := reconcile(kctesting.NewConfigBuilder(p).WithNodePools(pools...).Source())
			Expect(err).NotTo(HaveOccurred())

			Expect(clusterResources(mon, p)).To(Equal(1))
			Expect(poolEquivalents(mon, p)).To(Equal(n))

			top, err := Dispatch(p)
			Expect(err).NotTo(HaveOccurred())
			if top.FoldFirstPool {
				Expect(mon.Count(poolTypes[p])).To(Equal(n - 1))
			} else {
				Expect(mon.Count(poolTypes[p])).To(Equal(n))
			}
		},
		Entry("aws, one pool", config.ProviderAWS, 1),
		Entry("aws, three pools", config.ProviderAWS, 3),
		Entry("gcp, one pool", config.ProviderGCP, 1),
		Entry("gcp, three pools", config.ProviderGCP, 3),
		Entry("azure, one pool", config.ProviderAzure, 1),
		Entry("azure, four pools", config.ProviderAzure, 4),
	)

	Describe("configuration errors", func() {
		It("fails before declaring anything when a required key is missing", func() {
			src := kctesting.NewConfigBuilder(config.ProviderGCP).Without(config.KeyGCPProject).Source()
			mon, err := reconcile(src)
			Expect(err).To(MatchError(ContainSubstring(config.KeyGCPProject)))
			Expect(err).To(MatchError(config.ErrInvalidConfig))
			Expect(mon.Count(kctesting.TypeGCPNetwork)).To(BeZero())
		})

		It("rejects an unknown provider", func() {
			src := kctesting.NewConfigBuilder(config.ProviderAWS).With(config.KeyCloudProvider, "openstack").Source()
			_, err := reconcile(src)
			Expect(err).To(MatchError(config.ErrInvalidConfig))
		})

		It("stops in preflight on duplicate pool names", func() {
			src := kctesting.NewConfigBuilder(config.ProviderAWS).
				WithNodePools(kctesting.Pool("apps", 1, 3, 2), kctesting.Pool("apps", 1, 3, 2)).
				Source()
			mon, err := reconcile(src)
			Expect(err).To(MatchError(ContainSubstring("validation phase failed")))
			Expect(mon.Count(kctesting.TypeVPC)).To(BeZero())
		})

		It("lets preflight warnings through", func() {
			src := kctesting.NewConfigBuilder(config.ProviderGCP).
				WithNodePools(kctesting.Pool("spot", 0, 3, 5)).
				Source()
			_, err := reconcile(src)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("metrics", func() {
		It("counts declared resources by provider and kind", func() {
			rec := provisioning.NewRecorder()
			_, err := reconcile(kctesting.NewConfigBuilder(config.ProviderAWS).Source(), WithMetrics(rec))
			Expect(err).NotTo(HaveOccurred())

			Expect(declaredCount(rec, "aws", "subnet")).To(Equal(6.0))
			Expect(declaredCount(rec, "aws", "vpc")).To(Equal(1.0))
			Expect(declaredCount(rec, "aws", "eks_cluster")).To(Equal(1.0))
		})
	})
})
