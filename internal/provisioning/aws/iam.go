package aws

import (
	"encoding/json"
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const managedPolicyPrefix = "arn:aws:iam::aws:policy/"

// Managed policies every EKS worker needs.
var nodePolicies = []string{
	"AmazonEKSWorkerNodePolicy",
	"AmazonEKS_CNI_Policy",
	"AmazonEC2ContainerRegistryReadOnly",
}

const ebsCSIPolicy = "service-role/AmazonEBSCSIDriverPolicy"

// provisionNodeRole declares the instance role shared by every node group.
func (b *builder) provisionNodeRole() error {
	name := b.cfg.ClusterName + "-node-role"

	policy, err := json.Marshal(map[string]any{
		"Version": "2012-10-17",
		"Statement": []map[string]any{{
			"Effect":    "Allow",
			"Principal": map[string]string{"Service": "ec2.amazonaws.com"},
			"Action":    "sts:AssumeRole",
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to encode node assume role policy: %w", err)
	}

	b.nodeRole, err = iam.NewRole(b.ctx.Pulumi, name, &iam.RoleArgs{
		AssumeRolePolicy: pulumi.String(string(policy)),
		Tags:             b.tags(name),
	})
	if err != nil {
		return fmt.Errorf("failed to declare node role: %w", err)
	}
	b.ctx.Declared("iam_role", name)

	policies := append([]string(nil), nodePolicies...)
	if b.cfg.AWS.EnableAddons.EBSCSIDriver {
		policies = append(policies, ebsCSIPolicy)
	}

	for i, p := range policies {
		attachment := fmt.Sprintf("%s-policy-%d", name, i)
		_, err := iam.NewRolePolicyAttachment(b.ctx.Pulumi, attachment, &iam.RolePolicyAttachmentArgs{
			Role:      b.nodeRole.Name,
			PolicyArn: pulumi.String(managedPolicyPrefix + p),
		})
		if err != nil {
			return fmt.Errorf("failed to attach %s: %w", p, err)
		}
		b.ctx.Declared("iam_role_policy_attachment", attachment)
	}
	return nil
}
