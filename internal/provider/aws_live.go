package provider

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/model"
)

type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type ec2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
}

type costExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// AWSLive talks to real AWS APIs with the static credentials supplied on
// connect. Cost Explorer is always addressed in us-east-1.
type AWSLive struct {
	mu     sync.RWMutex
	region string
	sts    stsAPI
	ec2    ec2API
	ce     costExplorerAPI

	newClients func(cfg aws.Config) (stsAPI, ec2API, costExplorerAPI)
}

func NewAWSLive() *AWSLive {
	return &AWSLive{
		newClients: func(cfg aws.Config) (stsAPI, ec2API, costExplorerAPI) {
			ceCfg := cfg.Copy()
			ceCfg.Region = "us-east-1"
			return sts.NewFromConfig(cfg), ec2.NewFromConfig(cfg), costexplorer.NewFromConfig(ceCfg)
		},
	}
}

func (p *AWSLive) Name() string { return model.ProviderAWS }

func (p *AWSLive) Connect(ctx context.Context, creds Credentials) (*model.CloudConnection, error) {
	region := creds.Region
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, &Error{Provider: p.Name(), Err: fmt.Errorf("load config: %w", err)}
	}

	stsClient, ec2Client, ceClient := p.newClients(cfg)

	identity, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, &Error{Provider: p.Name(), Err: fmt.Errorf("validate credentials: %w", err)}
	}

	regions := []string{region}
	regionsOut, err := ec2Client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{AllRegions: aws.Bool(false)})
	if err == nil {
		regions = regions[:0]
		for _, r := range regionsOut.Regions {
			regions = append(regions, aws.ToString(r.RegionName))
		}
		if !contains(regions, region) {
			regions = append([]string{region}, regions...)
		}
	}

	p.mu.Lock()
	p.region = region
	p.sts, p.ec2, p.ce = stsClient, ec2Client, ceClient
	p.mu.Unlock()

	now := time.Now().UTC()
	return &model.CloudConnection{
		Provider:    p.Name(),
		AccountID:   aws.ToString(identity.Account),
		Status:      model.ConnectionConnected,
		Regions:     regions,
		ConnectedAt: now,
		UpdatedAt:   now,
	}, nil
}

func (p *AWSLive) clients() (ec2API, costExplorerAPI, string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.ec2 == nil || p.ce == nil {
		return nil, nil, "", &Error{Provider: p.Name(), Err: fmt.Errorf("not connected")}
	}
	return p.ec2, p.ce, p.region, nil
}

func (p *AWSLive) Resources(ctx context.Context) ([]model.CloudResource, error) {
	ec2Client, _, region, err := p.clients()
	if err != nil {
		return nil, err
	}

	var resources []model.CloudResource
	var nextToken *string
	for {
		out, err := ec2Client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{NextToken: nextToken})
		if err != nil {
			return nil, &Error{Provider: p.Name(), Err: fmt.Errorf("describe instances: %w", err)}
		}
		for _, reservation := range out.Reservations {
			for _, inst := range reservation.Instances {
				resources = append(resources, instanceToResource(inst, region))
			}
		}
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return resources, nil
}

func instanceToResource(inst ec2types.Instance, region string) model.CloudResource {
	res := model.CloudResource{
		ID:       aws.ToString(inst.InstanceId),
		Name:     aws.ToString(inst.InstanceId),
		Type:     "EC2 Instance",
		Provider: model.ProviderAWS,
		Region:   region,
		Status:   instanceStatus(inst),
		Tags:     map[string]string{},
	}
	for _, tag := range inst.Tags {
		key, value := aws.ToString(tag.Key), aws.ToString(tag.Value)
		if key == "Name" && value != "" {
			res.Name = value
		}
		res.Tags[key] = value
	}
	return res
}

func instanceStatus(inst ec2types.Instance) string {
	if inst.State == nil {
		return model.ResourceStopped
	}
	switch inst.State.Name {
	case ec2types.InstanceStateNameRunning, ec2types.InstanceStateNamePending:
		return model.ResourceRunning
	case ec2types.InstanceStateNameTerminated, ec2types.InstanceStateNameShuttingDown:
		return model.ResourceTerminated
	default:
		return model.ResourceStopped
	}
}

func (p *AWSLive) Costs(ctx context.Context, start, end time.Time) ([]model.CloudCost, error) {
	_, ceClient, _, err := p.clients()
	if err != nil {
		return nil, err
	}

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &cetypes.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			// Cost Explorer treats End as exclusive.
			End: aws.String(end.AddDate(0, 0, 1).Format("2006-01-02")),
		},
		Granularity: cetypes.GranularityDaily,
		Metrics:     []string{"UnblendedCost"},
		GroupBy: []cetypes.GroupDefinition{
			{Type: cetypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
	}

	out, err := ceClient.GetCostAndUsage(ctx, input)
	if err != nil {
		return nil, &Error{Provider: p.Name(), Err: fmt.Errorf("get cost and usage: %w", err)}
	}

	var costs []model.CloudCost
	for _, result := range out.ResultsByTime {
		date := ""
		if result.TimePeriod != nil {
			date = aws.ToString(result.TimePeriod.Start)
		}
		for _, group := range result.Groups {
			if len(group.Keys) == 0 {
				continue
			}
			metric, ok := group.Metrics["UnblendedCost"]
			if !ok {
				continue
			}
			amount, err := strconv.ParseFloat(aws.ToString(metric.Amount), 64)
			if err != nil {
				continue
			}
			costs = append(costs, model.CloudCost{
				Provider: p.Name(),
				Service:  group.Keys[0],
				Amount:   amount,
				Currency: aws.ToString(metric.Unit),
				Date:     date,
			})
		}
	}
	return costs, nil
}
